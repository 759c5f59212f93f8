package screen

import (
	"encoding/gob"
	"errors"
	"fmt"
	"strings"

	"github.com/corpweb/sitedesk/internal/media"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// Notice is a transient message shown to the operator after an action.
type Notice struct {
	Level Level
	Text  string
}

func init() {
	// notices travel through the cookie session as flashes
	gob.Register(Notice{})
}

func Success(format string, args ...any) Notice {
	return Notice{Level: LevelSuccess, Text: fmt.Sprintf(format, args...)}
}

func Info(format string, args ...any) Notice {
	return Notice{Level: LevelInfo, Text: fmt.Sprintf(format, args...)}
}

func Warn(format string, args ...any) Notice {
	return Notice{Level: LevelWarn, Text: fmt.Sprintf(format, args...)}
}

func Failure(format string, args ...any) Notice {
	return Notice{Level: LevelError, Text: fmt.Sprintf(format, args...)}
}

// FailureFor turns an error from a screen action into the notice the
// operator sees. action is a verb such as "save" or "delete".
func FailureFor(action, name string, err error) Notice {
	lower := strings.ToLower(name)
	switch {
	case errors.Is(err, ErrUpload):
		if errors.Is(err, media.ErrNotImage) {
			return Failure("The selected file is not an image")
		}
		if errors.Is(err, media.ErrTooLarge) {
			return Failure("The selected image is too large")
		}
		return Failure("Image upload failed")
	case errors.Is(err, ErrImageRequired):
		return Failure("Please choose an image for this %s", lower)
	case errors.Is(err, ErrInvalid):
		return Failure("%s", strings.TrimPrefix(err.Error(), ErrInvalid.Error()+": "))
	}
	return Failure("Failed to %s %s: %v", action, lower, err)
}
