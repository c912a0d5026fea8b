// Command rbrctl is an interactive shell for talking to a connected
// RBR Logger2/Logger3 instrument over a serial port.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/shlex"

	"rbrhost/host/rbr"
	"rbrhost/host/serial"
	"rbrhost/protocol"
)

var (
	device  = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored over USB CDC)")
	verbose = flag.Bool("verbose", false, "Print samples received between commands")
)

func main() {
	flag.Parse()

	fmt.Println("rbrctl - RBR Logger2/Logger3 host shell")
	fmt.Println("========================================")

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	fmt.Printf("Connecting to %s at %d baud...\n", *device, *baud)
	inst, err := rbr.ConnectWithConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer inst.Close()

	id := inst.ID()
	fmt.Printf("Connected: %s, firmware %s, serial %d (%s)\n", id.Model, id.Version, id.Serial, inst.Generation())

	if *verbose {
		inst.SetSampleSink(func(s *protocol.Sample) {
			fmt.Printf("sample: %s\n", protocol.FormatSample(*s))
		})
	}

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	runShell(inst, os.Stdin, os.Stdout)
}

func runShell(inst *rbr.Instrument, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(out, "parse error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		if !dispatch(inst, args, out) {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

// dispatch runs one parsed command line and reports whether the shell
// should keep reading more commands.
func dispatch(inst *rbr.Instrument, args []string, out io.Writer) bool {
	switch args[0] {
	case "quit", "exit", "q":
		fmt.Fprintln(out, "Goodbye!")
		return false

	case "help", "?":
		printHelp(out)

	case "id":
		id := inst.ID()
		fmt.Fprintf(out, "model = %s, version = %s, serial = %d, fwtype = %d\n",
			id.Model, id.Version, id.Serial, id.FirmwareType)

	case "clock":
		if len(args) >= 2 {
			t, err := time.Parse(time.RFC3339, args[1])
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				return true
			}
			if err := inst.SetClock(t); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				return true
			}
			fmt.Fprintln(out, "ok")
			return true
		}
		t, err := inst.GetClock()
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return true
		}
		fmt.Fprintln(out, t.Format(time.RFC3339))

	case "channels":
		if len(args) >= 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				return true
			}
			if err := inst.SetChannels(n); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				return true
			}
			fmt.Fprintln(out, "ok")
			return true
		}
		c, err := inst.GetChannels()
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return true
		}
		fmt.Fprintf(out, "count = %d, on = %d, settlingtime = %d, readtime = %d, minperiod = %d\n",
			c.Count, c.On, c.SettlingTime, c.ReadTime, c.MinPeriod)

	case "verify":
		status, warn, err := inst.Verify()
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return true
		}
		if warn != 0 {
			fmt.Fprintf(out, "status = %s, warning = W%04d\n", status, warn)
		} else {
			fmt.Fprintf(out, "status = %s\n", status)
		}

	case "getdata":
		if len(args) < 4 {
			fmt.Fprintln(out, "usage: getdata <dataset> <path> <chunk-size>")
			return true
		}
		dataset, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return true
		}
		chunkSize, err := strconv.Atoi(args[3])
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return true
		}
		f, err := os.Create(args[2])
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return true
		}
		defer f.Close()

		n, err := inst.ReadDataset(dataset, 0, chunkSize, f)
		if err != nil {
			fmt.Fprintf(out, "error after %d bytes: %v\n", n, err)
			return true
		}
		fmt.Fprintf(out, "wrote %d bytes to %s\n", n, args[2])

	default:
		fmt.Fprintf(out, "unknown command: %s (type 'help' for available commands)\n", args[0])
	}

	return true
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "\nAvailable commands:")
	fmt.Fprintln(out, "  help                            - Show this help message")
	fmt.Fprintln(out, "  id                              - Print the resolved instrument identity")
	fmt.Fprintln(out, "  clock [RFC3339 timestamp]       - Get or set the instrument clock")
	fmt.Fprintln(out, "  channels [n]                    - Get channel configuration, or enable the first n channels")
	fmt.Fprintln(out, "  verify                          - Validate the current configuration")
	fmt.Fprintln(out, "  getdata <dataset> <path> <size> - Download a dataset to a local file, paged at <size> bytes")
	fmt.Fprintln(out, "  quit/exit/q                     - Exit the shell")
	fmt.Fprintln(out)
}

