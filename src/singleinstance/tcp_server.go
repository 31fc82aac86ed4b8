package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"time"
)

const (
	residentHost   = "127.0.0.1"
	pingRequest    = "PING"
	pongResponse   = "PONG"
	measureRequest = "MEASURE"
	okResponse     = "OK"
	errResponse    = "ERR"
)

type tcpServer struct {
	lis      net.Listener
	incoming chan *tcpConn
	port     int
}

func newTCPServer() Server { return &tcpServer{incoming: make(chan *tcpConn, 4)} }

// Start binds only the first port of the range. If it is occupied a resident
// already exists and Start fails.
func (s *tcpServer) Start(ctx context.Context) error {
	if s.lis != nil {
		return nil
	}
	start, _ := portRange()
	addr := fmt.Sprintf("%s:%d", residentHost, start)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("singleinstance: bind %s: %w", addr, err)
	}
	s.lis = lis
	s.port = start
	log.Printf("singleinstance: listening on %s", addr)
	go s.acceptLoop(ctx)
	return nil
}

func (s *tcpServer) Port() int { return s.port }

func (s *tcpServer) acceptLoop(ctx context.Context) {
	for {
		c, err := s.lis.Accept()
		if err != nil {
			return
		}
		_ = c.SetDeadline(time.Now().Add(3 * time.Second))
		br := bufio.NewReader(c)
		line, _ := br.ReadString('\n')

		switch strings.TrimSpace(line) {
		case pingRequest:
			fmt.Fprintf(c, "%s\n", pongResponse)
			_ = c.Close()
		case measureRequest:
			_ = c.SetDeadline(time.Time{})
			log.Printf("singleinstance: trigger from %s", c.RemoteAddr())
			select {
			case s.incoming <- &tcpConn{c: c}:
			case <-ctx.Done():
				_ = c.Close()
				return
			}
		default:
			fmt.Fprintf(c, "%s unknown request\n", errResponse)
			_ = c.Close()
		}
	}
}

func (s *tcpServer) Next(ctx context.Context) (Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case tc := <-s.incoming:
		return tc, nil
	}
}

func (s *tcpServer) Close() error {
	if s.lis != nil {
		_ = s.lis.Close()
		s.lis = nil
	}
	return nil
}

type tcpConn struct{ c net.Conn }

func (tc *tcpConn) Accept() error {
	_, err := fmt.Fprintf(tc.c, "%s\n", okResponse)
	return err
}

func (tc *tcpConn) Reject(msg string) error {
	_, err := fmt.Fprintf(tc.c, "%s %s\n", errResponse, msg)
	return err
}

func (tc *tcpConn) Close() error { return tc.c.Close() }
