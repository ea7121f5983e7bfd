package notify

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/overpaint/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func recorder(out *[]sent) Sender {
	return func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		*out = append(*out, s)
		return nil
	}
}

func TestDisabledByDefault(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences()).WithSender(recorder(&got))
	n.Export("out.png", nil)
	n.Copy("")
	if len(got) != 0 {
		t.Fatalf("expected no notifications, got %+v", got)
	}

	var nilNotifier *Notifier
	nilNotifier.Enable(EventCopy, true)
	nilNotifier.Copy("x")
}

func TestExportAndCopy(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences()).WithSender(recorder(&got))
	n.Enable(EventExport, true)
	n.Enable(EventCopy, true)

	dir := t.TempDir()
	out := filepath.Join(dir, "scene.svg")
	n.Export(out, image.NewGray(image.Rect(0, 0, 2, 2)))
	n.Copy("")

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].title != "overpaint" || got[0].body != "Exported "+out {
		t.Errorf("unexpected export notification %+v", got[0])
	}
	if !got[0].iconExisted {
		t.Error("preview icon did not exist while sending")
	}
	if _, err := os.Stat(got[0].opts.IconPath); !os.IsNotExist(err) {
		t.Errorf("preview %s was not removed: %v", got[0].opts.IconPath, err)
	}
	if got[1].body != "Copied image to clipboard" || !got[1].opts.Transient {
		t.Errorf("unexpected copy notification %+v", got[1])
	}
	if got[1].opts.Timeout != DefaultPreferences().Timeout {
		t.Errorf("timeout not passed through: %v", got[1].opts.Timeout)
	}
}

func TestPreferencesFromEnv(t *testing.T) {
	t.Setenv("OVERPAINT_NOTIFY_TITLE", "Scenes")
	t.Setenv("OVERPAINT_NOTIFY_COPY_TEXT", "Clipboard now holds %s")
	t.Setenv("OVERPAINT_NOTIFY_EXPORT_TEXT", " ")

	prefs := LoadPreferences()
	var got []sent
	n := New(prefs).WithSender(recorder(&got))
	n.Enable(EventCopy, true)
	n.Copy("scene.svg")

	if len(got) != 1 || got[0].title != "Scenes" || got[0].body != "Clipboard now holds scene.svg" {
		t.Fatalf("unexpected notifications %+v", got)
	}
	if prefs.Events[EventExport].Template != "Exported %s" {
		t.Errorf("blank override replaced template: %q", prefs.Events[EventExport].Template)
	}
}

func TestSendErrorIsLogged(t *testing.T) {
	n := New(DefaultPreferences()).WithSender(func(string, string, platform.Options) error {
		return errors.New("no session bus")
	})
	n.Enable(EventCopy, true)
	n.Copy("svg")
}
