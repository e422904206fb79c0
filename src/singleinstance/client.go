package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// ErrResidentBusy is returned by Delegate when the resident is already
// running a capture session.
var ErrResidentBusy = errors.New("resident daemon is busy")

// Delegate looks for a resident in the port range and asks it to capture.
// found is false when no resident answered.
func Delegate(ctx context.Context) (found bool, err error) {
	timeout := 300 * time.Millisecond
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			timeout = d
		}
	}
	start, end := portRange()
	for port := start; port <= end; port++ {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
		resp, err := request(addr, pingRequest, timeout)
		if err != nil || resp != pongResponse {
			continue
		}
		resp, err = request(addr, captureRequest, timeout)
		if err != nil {
			return true, fmt.Errorf("resident on %s: %w", addr, err)
		}
		if resp == busyResponse {
			return true, ErrResidentBusy
		}
		if resp != okResponse {
			return true, fmt.Errorf("resident on %s: unexpected response %q", addr, resp)
		}
		return true, nil
	}
	return false, nil
}

func request(addr, req string, timeout time.Duration) (string, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	if _, err := conn.Write([]byte(req)); err != nil {
		return "", err
	}
	return bufio.NewReader(conn).ReadString('\n')
}
