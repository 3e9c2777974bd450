// Package notice models the transient feedback shown after an action.
package notice

// Kind selects how a notice is styled.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Notice is one transient message.
type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func Success(msg string) *Notice { return &Notice{Kind: KindSuccess, Message: msg} }
func Info(msg string) *Notice    { return &Notice{Kind: KindInfo, Message: msg} }
func Error(msg string) *Notice   { return &Notice{Kind: KindError, Message: msg} }

// IsError reports whether n is an error notice.
func (n *Notice) IsError() bool {
	return n != nil && n.Kind == KindError
}
