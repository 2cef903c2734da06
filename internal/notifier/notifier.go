// Package notifier delivers reminder popups through the moodlog tray app.
// The tray app advertises itself with a lockfile of the form port|pid|secret.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/moodlog/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning means no live tray app could be found.
var ErrTrayNotRunning = errors.New(constants.TrayProcessPrefix + " is not running")

// Kind tells the tray app which entry form to open when the popup is clicked.
type Kind string

const (
	KindMorning Kind = "morning"
	KindEvening Kind = "evening"
	KindInfo    Kind = "info"
)

type Message struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Kind  Kind   `json:"kind"`
	// Date is the day the reminder is about, YYYY-MM-DD.
	Date       string `json:"date,omitempty"`
	DurationMs uint32 `json:"duration_ms"`
}

type endpoint struct {
	Port   int
	PID    int
	Secret string
}

type Notifier struct {
	client *http.Client
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: 5 * time.Second}}
}

// Notify sends msg to the running tray app.
func (n *Notifier) Notify(ctx context.Context, msg Message) error {
	ep, err := n.discover()
	if err != nil {
		return err
	}
	if msg.DurationMs == 0 {
		msg.DurationMs = constants.NotificationDurationMs
	}
	return n.send(ctx, ep, msg)
}

// Available reports whether a tray app is running and reachable via its lockfile.
func (n *Notifier) Available() error {
	_, err := n.discover()
	return err
}

func (n *Notifier) discover() (endpoint, error) {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return endpoint{}, err
	}
	ep, err := readLockfile(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return endpoint{}, err
	}
	if err := validateProcess(ep.PID); err != nil {
		return endpoint{}, err
	}
	return ep, nil
}

// GetTrayAppConfigDir returns where the tray app keeps its lockfile. The
// tray app's settings.json may move it via settings.lockfile_dir.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil && store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
		return *store.Settings.LockfileDir, nil
	}
	return trayConfigDir, nil
}

func readLockfile(path string) (endpoint, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return endpoint{}, ErrTrayNotRunning
	}
	return parseLockfile(string(content))
}

func parseLockfile(content string) (endpoint, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return endpoint{}, errors.New("lockfile is malformed")
	}

	if strings.TrimSpace(parts[0]) == "" {
		return endpoint{}, errors.New("port in lockfile is empty")
	}
	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return endpoint{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return endpoint{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return endpoint{}, errors.New("invalid process ID in lockfile")
	}

	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return endpoint{}, errors.New("secret in lockfile is empty")
	}
	return endpoint{Port: port, PID: pid, Secret: secret}, nil
}

// validateProcess guards against a stale lockfile whose PID was reused.
func validateProcess(pid int) error {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayProcessPrefix) {
		return fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayProcessPrefix, process.Executable())
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, ep endpoint, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://127.0.0.1:%d", ep.Port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.TraySecretHeader, ep.Secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	respBody, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(respBody))
}
