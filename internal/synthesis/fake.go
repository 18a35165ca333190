package synthesis

import "context"

// Fake is a canned Describer for tests and offline runs. It records the last
// request it received.
type Fake struct {
	Response    string
	Err         error
	LastRequest *Request
}

func (f *Fake) Describe(_ context.Context, req *Request) (string, error) {
	f.LastRequest = req
	if f.Err != nil {
		return "", f.Err
	}
	if f.Response != "" {
		return f.Response, nil
	}
	return "synthesis unavailable; structured parameters follow:\n" + req.Prompt(), nil
}
