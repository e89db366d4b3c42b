package cli

import (
	"context"
	"fmt"
	"io"

	"sinta/internal/booking"
)

// runner carries what every command needs.
type runner struct {
	ctx context.Context
	svc *booking.Service
	out io.Writer
	err io.Writer
}

// Run executes the CLI with the given arguments and returns the exit code.
// Output goes to out, errors to errOut.
func Run(ctx context.Context, args []string, svc *booking.Service, out, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 1
	}

	r := &runner{ctx: ctx, svc: svc, out: out, err: errOut}
	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "list", "ls", "l":
		return r.runList(cmdArgs)
	case "add", "book", "a":
		return r.runAdd(cmdArgs)
	case "show", "s":
		return r.runShow(cmdArgs)
	case "complete", "done", "d":
		return r.runComplete(cmdArgs)
	case "attach":
		return r.runAttach(cmdArgs)
	case "export":
		return r.runExport(cmdArgs)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "Unknown command: %s\n", command)
		printUsage(errOut)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `sinta - Book and manage appointments

Usage: sinta [flags] [command] [arguments]

Commands:
  list, ls    List appointments, latest date first
  add         Book an appointment
              sinta add -name "Maria Santos" -date 2025-03-14 Transcript of records
  show        Show one appointment
              sinta show <id>
  complete    Complete (remove) an appointment
              sinta complete <id>
  attach      Attach an image reference
              sinta attach <id> <path-or-url>
  export      Write dated appointments as iCalendar
              sinta export [file.ics]

IDs may be shortened to any unique prefix.

Flags:
      --backend <name>   Storage backend: sqlite, files, http
      --db <path>        SQLite database path
      --notes <dir>      Directory for the files backend
      --api <url>        Notes API base URL for the http backend
      --tz <zone>        Timezone for "today", e.g. Asia/Manila
      --view <name>      Initial view: welcome, appointments

Running sinta without arguments launches the interactive TUI.`)
}
