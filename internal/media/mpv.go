package media

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MPV drives an mpv process over its JSON IPC socket. mpv runs idle in the
// background; Load swaps files into it rather than respawning the process.
type MPV struct {
	logger zerolog.Logger
	binary string
	socket string

	mu     sync.Mutex
	cmd    *exec.Cmd
	conn   net.Conn
	reader *bufio.Reader
	reqID  int
	loaded string
}

// NewMPV creates an mpv-backed player. binary defaults to "mpv" from PATH.
func NewMPV(logger zerolog.Logger, binary string) *MPV {
	if binary == "" {
		binary = "mpv"
	}
	return &MPV{
		logger: logger.With().Str("component", "mpv").Logger(),
		binary: binary,
		socket: filepath.Join(os.TempDir(), fmt.Sprintf("reelcut-mpv-%d.sock", os.Getpid())),
	}
}

// Start launches mpv idle and connects to its IPC socket. The socket can
// take a moment to appear, so connection is retried briefly.
func (p *MPV) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil {
		return nil
	}

	path, err := exec.LookPath(p.binary)
	if err != nil {
		return fmt.Errorf("mpv not found in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, path,
		"--idle=yes",
		"--force-window=yes",
		"--keep-open=yes",
		"--no-terminal",
		"--input-ipc-server="+p.socket,
	)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start mpv: %w", err)
	}
	p.cmd = cmd

	var conn net.Conn
	for i := 0; i < 50; i++ {
		conn, err = net.Dial("unix", p.socket)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	if err != nil {
		return fmt.Errorf("failed to connect to mpv socket: %w", err)
	}

	p.conn = conn
	p.reader = bufio.NewReader(conn)
	p.logger.Info().Str("socket", p.socket).Msg("mpv started")
	return nil
}

// Close shuts the mpv process down and removes the socket.
func (p *MPV) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
		_ = p.cmd.Wait()
		p.cmd = nil
	}
	_ = os.Remove(p.socket)
	return nil
}

type mpvResponse struct {
	Event     string `json:"event"`
	Error     string `json:"error"`
	RequestID int    `json:"request_id"`
}

// command sends one IPC command and waits for its reply, skipping any event
// notifications mpv interleaves on the socket.
func (p *MPV) command(ctx context.Context, args ...interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return fmt.Errorf("mpv not started")
	}

	p.reqID++
	req := map[string]interface{}{
		"command":    args,
		"request_id": p.reqID,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = p.conn.SetDeadline(deadline)
	} else {
		_ = p.conn.SetDeadline(time.Now().Add(5 * time.Second))
	}

	if _, err := p.conn.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("mpv ipc write: %w", err)
	}

	for {
		line, err := p.reader.ReadBytes('\n')
		if err != nil {
			return fmt.Errorf("mpv ipc read: %w", err)
		}
		var resp mpvResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if resp.Event != "" || resp.RequestID != p.reqID {
			continue
		}
		if resp.Error != "success" {
			return fmt.Errorf("mpv: %s", resp.Error)
		}
		return nil
	}
}

// Load opens a source file in the running mpv, paused.
func (p *MPV) Load(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return &OpenError{Path: path, Err: err}
	}
	if err := p.command(ctx, "loadfile", path); err != nil {
		return &OpenError{Path: path, Err: err}
	}
	if err := p.command(ctx, "set_property", "pause", true); err != nil {
		return &OpenError{Path: path, Err: err}
	}
	p.mu.Lock()
	p.loaded = path
	p.mu.Unlock()
	p.logger.Debug().Str("path", path).Msg("media loaded")
	return nil
}

// Seek moves the decoder to an absolute source-relative offset.
func (p *MPV) Seek(ctx context.Context, offset time.Duration) error {
	p.mu.Lock()
	loaded := p.loaded
	p.mu.Unlock()
	if loaded == "" {
		return &SeekError{Offset: offset, Err: fmt.Errorf("no media loaded")}
	}
	if err := p.command(ctx, "seek", offset.Seconds(), "absolute+exact"); err != nil {
		return &SeekError{Offset: offset, Err: err}
	}
	return nil
}

// Play resumes decoding.
func (p *MPV) Play(ctx context.Context) error {
	return p.command(ctx, "set_property", "pause", false)
}

// Pause suspends decoding, keeping the position.
func (p *MPV) Pause(ctx context.Context) error {
	return p.command(ctx, "set_property", "pause", true)
}

// Stop unloads the current file and idles.
func (p *MPV) Stop(ctx context.Context) error {
	p.mu.Lock()
	p.loaded = ""
	p.mu.Unlock()
	return p.command(ctx, "stop")
}
