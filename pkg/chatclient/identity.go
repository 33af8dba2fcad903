package chatclient

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Identity persists the opaque client id across runs. The id is the
// only thing tying a browser-less client to its sessions, so losing it
// orphans them; it lives in the user config dir, not a temp dir.
type Identity struct {
	dir  string
	file string
}

func NewIdentity() (*Identity, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(configDir, "career-counselor")
	return &Identity{
		dir:  dir,
		file: filepath.Join(dir, "client_id"),
	}, nil
}

// Get returns the stored client id, creating one on first use.
func (i *Identity) Get() (uuid.UUID, error) {
	raw, err := os.ReadFile(i.file)
	if err == nil {
		if id, parseErr := uuid.Parse(strings.TrimSpace(string(raw))); parseErr == nil {
			return id, nil
		}
		// Corrupt file: fall through and mint a fresh identity.
	} else if !os.IsNotExist(err) {
		return uuid.Nil, err
	}

	id := uuid.New()
	if err := i.Set(id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (i *Identity) Set(id uuid.UUID) error {
	if err := os.MkdirAll(i.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(i.file, []byte(id.String()), 0o600)
}

// Clear removes the stored identity; the next Get mints a new one,
// abandoning all sessions owned by the old id.
func (i *Identity) Clear() error {
	err := os.Remove(i.file)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
