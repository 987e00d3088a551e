package notifications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type Notice struct {
	Operation string
	RecipeId  int
	Messages  []string
}

// Text is the presentation every surfaced failure uses: messages joined by
// newlines.
func (n Notice) Text() string {
	return strings.Join(n.Messages, "\n")
}

type NotificationService interface {
	Notify(ctx context.Context, notice Notice) error
}

type ConsoleNotifications struct {
	Out   io.Writer
	mutex sync.Mutex
}

func (cn *ConsoleNotifications) Notify(ctx context.Context, notice Notice) error {
	cn.mutex.Lock()
	defer cn.mutex.Unlock()
	_, err := color.New(color.FgRed, color.Bold).Fprintf(cn.Out, "%s\n", notice.Text())
	if err != nil {
		return fmt.Errorf("writing notice: %w", err)
	}
	return nil
}

// RecordingNotifications keeps every notice in memory.
type RecordingNotifications struct {
	mutex   sync.Mutex
	notices []Notice
}

func (rn *RecordingNotifications) Notify(ctx context.Context, notice Notice) error {
	rn.mutex.Lock()
	defer rn.mutex.Unlock()
	rn.notices = append(rn.notices, notice)
	return nil
}

func (rn *RecordingNotifications) Notices() []Notice {
	rn.mutex.Lock()
	defer rn.mutex.Unlock()
	return append([]Notice(nil), rn.notices...)
}

// MultiNotifications delivers a notice to every service, in order.
type MultiNotifications []NotificationService

func (mn MultiNotifications) Notify(ctx context.Context, notice Notice) error {
	var errs []error
	for _, service := range mn {
		if err := service.Notify(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
