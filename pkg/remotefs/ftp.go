package remotefs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"path"
	"time"

	"github.com/jlaffaye/ftp"
)

// FTPConfig carries the connection settings for the game server's FTP drop.
type FTPConfig struct {
	Addr     string
	User     string
	Password string
	BasePath string
	Timeout  time.Duration
}

// FTP stores files over FTP. A fresh connection is dialed per operation; the
// delivery cadence is far below any rate where pooling would matter, and a
// stale control connection is worse than a reconnect.
type FTP struct {
	cfg FTPConfig
}

func NewFTP(cfg FTPConfig) (*FTP, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("remotefs: ftp address is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &FTP{cfg: cfg}, nil
}

func (f *FTP) connect(ctx context.Context) (*ftp.ServerConn, error) {
	conn, err := ftp.Dial(f.cfg.Addr,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(f.cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("remotefs: ftp dial %s: %w", f.cfg.Addr, err)
	}
	if f.cfg.User != "" {
		if err := conn.Login(f.cfg.User, f.cfg.Password); err != nil {
			_ = conn.Quit()
			return nil, fmt.Errorf("remotefs: ftp login: %w", err)
		}
	}
	return conn, nil
}

func (f *FTP) remotePath(p string) string {
	return path.Join(f.cfg.BasePath, p)
}

func (f *FTP) Get(ctx context.Context, p string) ([]byte, error) {
	conn, err := f.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Quit() }()

	resp, err := conn.Retr(f.remotePath(p))
	if err != nil {
		if isFileUnavailable(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("remotefs: ftp retr %s: %w", p, err)
	}
	defer func() { _ = resp.Close() }()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("remotefs: ftp read %s: %w", p, err)
	}
	return data, nil
}

func (f *FTP) Put(ctx context.Context, p string, data []byte) error {
	conn, err := f.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Quit() }()

	remote := f.remotePath(p)
	// MakeDir fails when the directory already exists; that is fine
	for _, dir := range parentDirs(remote) {
		_ = conn.MakeDir(dir)
	}
	if err := conn.Stor(remote, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("remotefs: ftp stor %s: %w", p, err)
	}
	return nil
}

// parentDirs returns p's ancestor directories, outermost first.
func parentDirs(p string) []string {
	dir := path.Dir(p)
	if dir == "." || dir == "/" || dir == "" {
		return nil
	}
	var dirs []string
	for dir != "." && dir != "/" && dir != "" {
		dirs = append([]string{dir}, dirs...)
		dir = path.Dir(dir)
	}
	return dirs
}

// Delete removes the file at p. Missing files are not an error.
func (f *FTP) Delete(ctx context.Context, p string) error {
	conn, err := f.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Quit() }()

	if err := conn.Delete(f.remotePath(p)); err != nil && !isFileUnavailable(err) {
		return fmt.Errorf("remotefs: ftp delete %s: %w", p, err)
	}
	return nil
}

func isFileUnavailable(err error) bool {
	var proto *textproto.Error
	if errors.As(err, &proto) {
		return proto.Code == ftp.StatusFileUnavailable
	}
	return false
}
