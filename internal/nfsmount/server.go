package nfsmount

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"

	billy "github.com/go-git/go-billy/v5"
	nfs "github.com/willscott/go-nfs"
	nfshelper "github.com/willscott/go-nfs/helpers"
)

// Server manages the NFS server lifecycle.
type Server struct {
	listener net.Listener
	port     int
}

// NewServer starts an NFS server on addr serving fs read-only. An empty
// addr or a zero port picks an ephemeral port.
func NewServer(fs billy.Filesystem, addr string) (*Server, error) {
	if addr == "" {
		addr = "localhost:0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("nfs listen %s: %w", addr, err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	handler := nfshelper.NewNullAuthHandler(NewExportFS(fs))
	cacheHelper := nfshelper.NewCachingHandler(handler, 4096)

	go func() {
		_ = nfs.Serve(listener, cacheHelper)
	}()

	return &Server{listener: listener, port: port}, nil
}

// Port returns the TCP port the NFS server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Close stops the NFS server by closing the listener.
func (s *Server) Close() error {
	return s.listener.Close()
}

// mountArgs returns the command line that mounts the server on port at
// mountpoint read-only on goos.
func mountArgs(goos string, port int, mountpoint string) ([]string, error) {
	var opts string
	switch goos {
	case "darwin":
		opts = "locallocks,noresvport,rdonly"
	case "linux":
		opts = "local_lock=all,nolock,ro"
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
	opts = fmt.Sprintf("port=%d,mountport=%d,vers=3,tcp,%s", port, port, opts)
	return []string{"sudo", "mount", "-t", "nfs", "-o", opts, "localhost:/", mountpoint}, nil
}

// unmountArgs lists the unmount command lines to try in order. diskutil
// needs no sudo for user NFS mounts on macOS.
func unmountArgs(goos, mountpoint string) [][]string {
	sudo := []string{"sudo", "umount", mountpoint}
	if goos == "darwin" {
		return [][]string{{"diskutil", "unmount", mountpoint}, sudo}
	}
	return [][]string{sudo}
}

func run(args []string) error {
	output, err := exec.Command(args[0], args[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w\n%s", args[1], err, output)
	}
	return nil
}

// Mount mounts the server on port at mountpoint read-only. Requires sudo.
func Mount(port int, mountpoint string) error {
	args, err := mountArgs(runtime.GOOS, port, mountpoint)
	if err != nil {
		return err
	}
	return run(args)
}

// Unmount unmounts mountpoint, returning the error of the last attempt.
func Unmount(mountpoint string) error {
	var err error
	for _, args := range unmountArgs(runtime.GOOS, mountpoint) {
		if err = run(args); err == nil {
			return nil
		}
	}
	return err
}
