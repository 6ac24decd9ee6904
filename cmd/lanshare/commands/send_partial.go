package commands

import (
	"fmt"
	"net"

	"github.com/celaltas/lanshare-go/pkg/ingest"
	"github.com/spf13/cobra"
)

var cutoffBytes int64

var sendPartialCmd = &cobra.Command{
	Use:   "send-partial <host> <path>",
	Short: "Send only the first N bytes of a file, then stop",
	Long: `Send a file to a lanshare server but stop after --cutoff payload bytes,
then close the connection with the remainder unsent.

This exists to exercise the server's resume path: the receiver is left with
a transaction short of its declared total size, which a subsequent "send"
of the same file will pick up and complete.

Examples:
  lanshare send-partial 192.168.1.50 ./report.pdf --cutoff 1048576`,
	Args: cobra.ExactArgs(2),
	RunE: runSendPartial,
}

func init() {
	sendPartialCmd.Flags().Int64Var(&cutoffBytes, "cutoff", 0, "number of payload bytes to send before stopping")
}

func runSendPartial(cmd *cobra.Command, args []string) error {
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

	if err := ingest.SendPartial(conn, path, sha, uint64(cutoffBytes)); err != nil {
		return fmt.Errorf("failed to send %s: %w", path, err)
	}

	fmt.Printf("sent %d bytes of %s to %s\n", cutoffBytes, path, host)
	return nil
}
