package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"sinta/internal/booking"
	"sinta/internal/calsync"
	"sinta/internal/logs"
)

func (r *runner) runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(r.err)
	query := fs.String("q", "", "Fuzzy filter by name or details")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	list, err := r.svc.List(r.ctx)
	if err != nil {
		fmt.Fprintf(r.err, "Error loading appointments: %v\n", err)
		return 1
	}
	total := len(list)
	booked := 0
	today := r.svc.Today()
	for _, a := range list {
		if a.DateValid && a.Date.Equal(today) {
			booked++
		}
	}

	list = booking.Search(list, *query)
	if len(list) == 0 {
		fmt.Fprintln(r.out, "No appointments found.")
		return 0
	}

	for _, a := range list {
		r.printAppointment(a)
	}

	fmt.Fprintf(r.out, "\n%d appointment(s), %d slots available today\n",
		total, booking.Capacity(r.svc.Slots(), booked))
	return 0
}

func (r *runner) runAdd(args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(r.err)
	name := fs.String("name", "", "Full name (required)")
	date := fs.String("date", "", "Appointment date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	a, err := r.svc.Schedule(r.ctx, booking.Draft{
		Name:    *name,
		Details: strings.Join(fs.Args(), " "),
		Date:    *date,
	})
	if err != nil {
		fmt.Fprintf(r.err, "Error booking appointment: %v\n", err)
		fmt.Fprintln(r.err, `Usage: sinta add -name "Full Name" -date YYYY-MM-DD [details...]`)
		return 1
	}

	fmt.Fprintf(r.out, "Booked: %s\n", a.Name)
	if a.HasDate {
		fmt.Fprintf(r.out, "Date: %s\n", a.DateText)
	}
	fmt.Fprintf(r.out, "ID: %s\n", a.ID)
	return 0
}

func (r *runner) runShow(args []string) int {
	a, ok := r.resolve(args, "show")
	if !ok {
		return 1
	}

	fmt.Fprintf(r.out, "%s\n", a.Name)
	fmt.Fprintf(r.out, "ID:      %s\n", a.ID)
	fmt.Fprintf(r.out, "When:    %s\n", a.When(r.svc.Location()))
	fmt.Fprintf(r.out, "Created: %s\n", a.CreatedAt.In(r.svc.Location()).Format("Jan 2, 2006 3:04 PM"))
	if a.Details != "" {
		fmt.Fprintf(r.out, "\n%s\n", a.Details)
	}
	if len(a.Images) > 0 {
		fmt.Fprintln(r.out, "\nAttachments:")
		for i := range a.Images {
			fmt.Fprintf(r.out, "  %s\n", a.ImageURL(i))
		}
	}
	return 0
}

func (r *runner) runComplete(args []string) int {
	a, ok := r.resolve(args, "complete")
	if !ok {
		return 1
	}
	if err := r.svc.Complete(r.ctx, a.ID); err != nil {
		fmt.Fprintf(r.err, "Error completing appointment: %v\n", err)
		return 1
	}
	fmt.Fprintf(r.out, "Completed: %s\n", a.Name)
	return 0
}

func (r *runner) runAttach(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(r.err, "Error: appointment ID and image reference required")
		fmt.Fprintln(r.err, "Usage: sinta attach <id> <path-or-url>")
		return 1
	}
	a, ok := r.resolve(args[:1], "attach")
	if !ok {
		return 1
	}
	updated, err := r.svc.Attach(r.ctx, a.ID, args[1])
	if err != nil {
		fmt.Fprintf(r.err, "Error attaching image: %v\n", err)
		return 1
	}
	fmt.Fprintf(r.out, "Attached %s to %s (%d attachment(s))\n", args[1], updated.Name, len(updated.Images))
	return 0
}

func (r *runner) runExport(args []string) int {
	list, err := r.svc.List(r.ctx)
	if err != nil {
		fmt.Fprintf(r.err, "Error loading appointments: %v\n", err)
		return 1
	}

	if len(args) == 0 || args[0] == "-" {
		return r.export(r.out, list)
	}

	path := args[0]
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(r.err, "Error creating %s: %v\n", path, err)
		return 1
	}
	code := r.export(f, list)
	if err := f.Close(); err != nil {
		fmt.Fprintf(r.err, "Error writing %s: %v\n", path, err)
		return 1
	}
	if code == 0 {
		fmt.Fprintf(r.out, "Exported to %s\n", path)
	}
	return code
}

func (r *runner) export(w io.Writer, list []booking.Appointment) int {
	n, err := calsync.Export(w, list, r.svc.Now())
	if errors.Is(err, calsync.ErrNothingToExport) {
		fmt.Fprintln(r.err, "No dated appointments to export.")
		return 0
	}
	if err != nil {
		fmt.Fprintf(r.err, "Error exporting appointments: %v\n", err)
		return 1
	}
	logs.Logger.Printf("Exported %d appointment(s)", n)
	return 0
}

// resolve loads the list and finds the appointment named by args[0].
func (r *runner) resolve(args []string, command string) (booking.Appointment, bool) {
	if len(args) == 0 {
		fmt.Fprintln(r.err, "Error: appointment ID required")
		fmt.Fprintf(r.err, "Usage: sinta %s <id>\n", command)
		return booking.Appointment{}, false
	}

	list, err := r.svc.List(r.ctx)
	if err != nil {
		fmt.Fprintf(r.err, "Error loading appointments: %v\n", err)
		return booking.Appointment{}, false
	}
	a, err := booking.Resolve(list, args[0])
	if err != nil {
		fmt.Fprintf(r.err, "Error: %v\n", err)
		return booking.Appointment{}, false
	}
	return a, true
}

func (r *runner) printAppointment(a booking.Appointment) {
	id := a.ID
	if len(id) > 8 {
		id = id[:8]
	}

	fmt.Fprintf(r.out, "[%s] %s\n", id, a.Name)

	var meta []string
	meta = append(meta, a.When(r.svc.Location()))
	if preview := booking.Preview(a.Details, 1); preview != "" {
		meta = append(meta, preview)
	}
	if n := len(a.Images); n > 0 {
		meta = append(meta, fmt.Sprintf("%d attachment(s)", n))
	}
	fmt.Fprintf(r.out, "           %s\n", strings.Join(meta, " | "))
}
