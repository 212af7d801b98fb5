// Package iocli abstracts terminal input and output so commands can be
// tested without a TTY.
package iocli

// IO is the terminal surface the CLI commands talk to.
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}
