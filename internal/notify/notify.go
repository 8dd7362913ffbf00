// Package notify is the fire-and-forget presentation sink for toasts and
// confirm dialogs. Callers never depend on delivery; every call is
// stateless.
package notify

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Notifier presents messages to the user. Confirm blocks for a yes/no
// answer; everything else is fire-and-forget.
type Notifier interface {
	Success(message string)
	Error(message string)
	Warning(message string)
	Info(message string)
	Confirm(message string) bool
}

// Terminal writes notifications to an output stream and reads confirm
// answers from an input stream.
type Terminal struct {
	out    io.Writer
	reader *bufio.Reader
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{out: out, reader: bufio.NewReader(in)}
}

func (t *Terminal) Success(message string) { fmt.Fprintf(t.out, "[ok] %s\n", message) }
func (t *Terminal) Error(message string)   { fmt.Fprintf(t.out, "[error] %s\n", message) }
func (t *Terminal) Warning(message string) { fmt.Fprintf(t.out, "[warn] %s\n", message) }
func (t *Terminal) Info(message string)    { fmt.Fprintf(t.out, "[info] %s\n", message) }

// Confirm prompts for yes/no. Anything but an explicit yes declines.
func (t *Terminal) Confirm(message string) bool {
	fmt.Fprintf(t.out, "%s (yes/no): ", message)
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// Recorder captures notifications for tests. ConfirmAnswer scripts the
// reply to Confirm.
type Recorder struct {
	mu            sync.Mutex
	Successes     []string
	Errors        []string
	Warnings      []string
	Infos         []string
	Confirms      []string
	ConfirmAnswer bool
}

func (r *Recorder) Success(message string) { r.append(&r.Successes, message) }
func (r *Recorder) Error(message string)   { r.append(&r.Errors, message) }
func (r *Recorder) Warning(message string) { r.append(&r.Warnings, message) }
func (r *Recorder) Info(message string)    { r.append(&r.Infos, message) }

func (r *Recorder) Confirm(message string) bool {
	r.append(&r.Confirms, message)
	return r.ConfirmAnswer
}

func (r *Recorder) append(list *[]string, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*list = append(*list, message)
}
