package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

type tcpClient struct{}

func newTCPClient() Client { return &tcpClient{} }

func (c *tcpClient) TriggerMeasure(ctx context.Context) (bool, error) {
	deadline := 2 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			deadline = d
		}
	}

	start, end := portRange()
	for port := start; port <= end; port++ {
		addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
		if !ping(addr, deadline) {
			continue
		}

		conn, err := net.DialTimeout("tcp", addr, deadline)
		if err != nil {
			continue
		}
		_ = conn.SetDeadline(time.Now().Add(deadline))
		if _, err := fmt.Fprintf(conn, "%s\n", measureRequest); err != nil {
			conn.Close()
			return true, err
		}

		status, err := bufio.NewReader(conn).ReadString('\n')
		conn.Close()
		if err != nil {
			return true, err
		}
		status = strings.TrimSpace(status)
		if status == okResponse {
			return true, nil
		}
		if msg, found := strings.CutPrefix(status, errResponse); found {
			return true, errors.New(strings.TrimSpace(msg))
		}
		return true, fmt.Errorf("unexpected response %q", status)
	}
	return false, nil
}

func ping(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	if _, err := fmt.Fprintf(conn, "%s\n", pingRequest); err != nil {
		return false
	}
	resp, err := bufio.NewReader(conn).ReadString('\n')
	return err == nil && strings.TrimSpace(resp) == pongResponse
}
