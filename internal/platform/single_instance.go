package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	showCommand      = "show"
	ackReply         = "ok"
	handshakeTimeout = 2 * time.Second
)

// InstanceGuard holds the single-instance lock and answers show requests
// from later launches.
type InstanceGuard struct {
	listener net.Listener
	address  string
	onShow   func()
	wg       sync.WaitGroup
}

// AcquireSingleInstance binds a localhost port derived from appName. When the
// port is held by a running instance it asks that instance to show itself and
// returns ErrAlreadyRunning.
func AcquireSingleInstance(appName string, onShow func()) (*InstanceGuard, error) {
	return acquireAt(fmt.Sprintf("127.0.0.1:%d", portFromName(appName)), onShow)
}

func acquireAt(address string, onShow func()) (*InstanceGuard, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if requestShow(address) == nil {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("acquire single instance: %w", err)
	}

	guard := &InstanceGuard{listener: listener, address: listener.Addr().String(), onShow: onShow}
	guard.wg.Add(1)
	go guard.serve()
	return guard, nil
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	guard.wg.Wait()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func (guard *InstanceGuard) serve() {
	defer guard.wg.Done()
	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			return
		}
		guard.handle(conn)
	}
}

func (guard *InstanceGuard) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(handshakeTimeout))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil || strings.TrimSpace(line) != showCommand {
		return
	}
	if _, err := fmt.Fprintln(conn, ackReply); err != nil {
		return
	}
	if guard.onShow != nil {
		guard.onShow()
	}
}

func requestShow(address string) error {
	conn, err := net.DialTimeout("tcp", address, handshakeTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(handshakeTimeout))

	if _, err := fmt.Fprintln(conn, showCommand); err != nil {
		return err
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return err
	}
	if strings.TrimSpace(reply) != ackReply {
		return fmt.Errorf("unexpected reply %q", strings.TrimSpace(reply))
	}
	return nil
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
