package commands

import (
	"fmt"
	"io"
	"net"
	"os"

	"github.com/celaltas/lanshare-go/pkg/digest"
	"github.com/celaltas/lanshare-go/pkg/ingest"
	"github.com/spf13/cobra"
)

const defaultPort = "8080"

var sendCmd = &cobra.Command{
	Use:   "send <host> <path>",
	Short: "Send a file to a lanshare server",
	Long: `Send a file to a lanshare server listening on the given host.

The file's SHA-256 digest is computed locally and sent as part of the
transfer header so the receiver can verify the bytes it stages.

Examples:
  lanshare send 192.168.1.50 ./report.pdf`,
	Args: cobra.ExactArgs(2),
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	host, path := args[0], args[1]

	sha, err := sha256File(path)
	if err != nil {
		return fmt.Errorf("failed to hash %s: %w", path, err)
	}

	conn, err := net.Dial("tcp", net.JoinHostPort(host, defaultPort))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", host, err)
	}
	defer conn.Close()

	if err := ingest.Send(conn, path, sha); err != nil {
		return fmt.Errorf("failed to send %s: %w", path, err)
	}

	fmt.Printf("sent %s to %s\n", path, host)
	return nil
}

func sha256File(path string) ([32]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return [32]byte{}, err
	}
	defer f.Close()

	d := digest.New()
	if _, err := io.Copy(d, f); err != nil {
		return [32]byte{}, err
	}
	return d.Sum()
}
