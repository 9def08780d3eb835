package instance

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxLaunchBytes = 64 * 1024

// Server accepts launches handed over by later processes.
type Server struct {
	ln    net.Listener
	token string

	closeOnce sync.Once
}

// Listen opens the loopback listener and publishes its port and a fresh
// token in instance.json.
func Listen(cfg Config) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		_ = ln.Close()
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		_ = ln.Close()
		return nil, err
	}
	token := uuid.NewString()
	if err := writeInstanceInfo(cfg, instanceInfo{Port: port, Token: token}); err != nil {
		_ = ln.Close()
		return nil, err
	}
	return &Server{ln: ln, token: token}, nil
}

// Serve calls handle for every valid launch until the server is closed.
// Connections carrying the wrong token are dropped.
func (s *Server) Serve(handle func(Launch)) error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.handleConn(conn, handle)
	}
}

func (s *Server) handleConn(conn net.Conn, handle func(Launch)) {
	defer func() { _ = conn.Close() }()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var launch Launch
	if err := json.NewDecoder(io.LimitReader(conn, maxLaunchBytes)).Decode(&launch); err != nil {
		return
	}
	if launch.Token != s.token {
		return
	}
	handle(launch)
}

func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.ln.Close()
	})
	return err
}

// Notify hands launch to the running instance. instance.json may not be
// written yet if both processes started together, so it retries for up to
// two seconds.
func Notify(cfg Config, launch Launch) error {
	var lastErr error
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		info, err := readInstanceInfo(cfg)
		if err != nil {
			lastErr = err
			time.Sleep(100 * time.Millisecond)
			continue
		}

		conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", info.Port), 300*time.Millisecond)
		if err != nil {
			lastErr = err
			time.Sleep(100 * time.Millisecond)
			continue
		}
		launch.Token = info.Token
		err = json.NewEncoder(conn).Encode(launch)
		_ = conn.Close()
		if err != nil {
			lastErr = err
			time.Sleep(100 * time.Millisecond)
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("notify timeout")
	}
	return lastErr
}
