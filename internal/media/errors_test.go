package media

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"testing"
	"time"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target any
	}{
		{"net.Error", timeoutErr{}, new(*NetworkError)},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, new(*NetworkError)},
		{"path error", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}, new(*FilesystemError)},
		{"permission", fs.ErrPermission, new(*FilesystemError)},
		{"timeout text", errors.New("download timed out"), new(*NetworkError)},
		{"extractor fallback", errors.New("unsupported url"), new(*ExtractorError)},
	}

	for _, test := range tests {
		classified := classify(test.err)
		var matched bool
		switch target := test.target.(type) {
		case **NetworkError:
			matched = errors.As(classified, target)
		case **FilesystemError:
			matched = errors.As(classified, target)
		case **ExtractorError:
			matched = errors.As(classified, target)
		}
		if !matched {
			t.Errorf("%s: classify(%v) = %T, expected %T", test.name, test.err, classified, test.target)
		}
	}
}

func TestClassify_Nil(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
}

func TestClassify_ContextPassthrough(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	if !errors.Is(classify(ctx.Err()), context.DeadlineExceeded) {
		t.Error("Context errors should pass through unwrapped")
	}

	if !errors.Is(classify(context.Canceled), context.Canceled) {
		t.Error("Cancellation should pass through unwrapped")
	}
}

func TestTypedErrors_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	for _, err := range []error{
		&NetworkError{Err: inner},
		&ExtractorError{Err: inner},
		&FilesystemError{Err: inner},
	} {
		if !errors.Is(err, inner) {
			t.Errorf("%T should unwrap to the inner error", err)
		}
		if err.Error() == "" {
			t.Errorf("%T has empty message", err)
		}
	}
}
