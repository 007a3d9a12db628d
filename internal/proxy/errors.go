package proxy

import "fmt"

// StatusError reports a non-success HTTP status from the proxy.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("proxy error %d: %s", e.Code, e.Body)
}

// EmptyResponseError reports a response with no choices or no usable text.
type EmptyResponseError struct {
	Usage Usage
}

func (e *EmptyResponseError) Error() string {
	return "empty completion response"
}

// TruncatedError reports a completion that produced no text because the model
// hit its output-length limit (finish_reason "length"). Usage counters are
// carried to aid diagnosis.
type TruncatedError struct {
	Usage Usage
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("completion truncated at output limit (completion_tokens=%d)", e.Usage.CompletionTokens)
}
