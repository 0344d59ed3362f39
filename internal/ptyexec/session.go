package ptyexec

import (
	"errors"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

const sigkillGrace = 200 * time.Millisecond

// session is one running PTY-backed command: a reader goroutine drains the
// PTY master into the broadcaster, a writer goroutine forwards queued
// stdin bytes, and a waiter goroutine blocks on the child's exit and
// reports its code on a one-shot channel.
type session struct {
	id        SessionID
	cmd       *exec.Cmd
	ptmx      *os.File
	broadcast *broadcaster
	writerCh  chan []byte
	exitCh    chan int

	mu      sync.Mutex
	exited  bool
	exitCode int
}

func spawnSession(id SessionID, params ExecParams) (*session, error) {
	shell := params.Shell
	if shell == "" {
		shell = detectShell()
	}
	mode := "-c"
	if params.Login {
		mode = "-lc"
	}

	cmd := exec.Command(shell, mode, params.Cmd)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 24, Cols: 80})
	if err != nil {
		return nil, err
	}

	s := &session{
		id:        id,
		cmd:       cmd,
		ptmx:      ptmx,
		broadcast: newBroadcaster(),
		writerCh:  make(chan []byte, 128),
		exitCh:    make(chan int, 1),
	}

	go s.readLoop()
	go s.writeLoop()
	go s.waitLoop()

	return s, nil
}

func (s *session) readLoop() {
	buf := make([]byte, 8192)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.broadcast.publish(chunk)
		}
		if err == nil {
			continue
		}
		if errors.Is(err, syscall.EINTR) {
			continue
		}
		if errors.Is(err, syscall.EAGAIN) {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		// EOF, EIO (the PTY master's usual signal that the slave side
		// closed), or any other read error all mean the stream is done.
		return
	}
}

func (s *session) writeLoop() {
	for chunk := range s.writerCh {
		_, _ = s.ptmx.Write(chunk)
	}
}

func (s *session) waitLoop() {
	err := s.cmd.Wait()
	code := exitCodeFromWaitErr(s.cmd, err)
	s.mu.Lock()
	s.exited = true
	s.exitCode = code
	s.mu.Unlock()
	s.exitCh <- code
}

func exitCodeFromWaitErr(cmd *exec.Cmd, err error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if err == nil {
		return 0
	}
	return -1
}

// hasExited reports whether the child has already exited, and its code.
func (s *session) hasExited() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode, s.exited
}

// writeStdin forwards chars to the session's stdin, reporting false if the
// writer is no longer accepting input.
func (s *session) writeStdin(chars []byte) bool {
	if len(chars) == 0 {
		return true
	}
	select {
	case s.writerCh <- chars:
		return true
	default:
		return false
	}
}

// kill sends SIGTERM to the process group, waits a short grace period,
// then escalates to SIGKILL if the child is still alive.
func (s *session) kill() {
	if s.cmd.Process == nil {
		return
	}
	pid := s.cmd.Process.Pid
	_ = syscall.Kill(-pid, syscall.SIGTERM)
	time.Sleep(sigkillGrace)
	if _, exited := s.hasExited(); !exited {
		_ = syscall.Kill(-pid, syscall.SIGKILL)
	}
}

func (s *session) close() {
	close(s.writerCh)
	s.broadcast.closeAll()
	_ = s.ptmx.Close()
}
