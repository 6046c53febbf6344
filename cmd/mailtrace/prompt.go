package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"mailtrace/internal/filtering"
)

var searchTypeChoices = map[string]string{
	"1": "sender",
	"2": "recipient",
	"3": "both",
}

var statusChoices = map[string]string{
	"1": "sent",
	"2": "blocked",
	"3": "deferred",
	"4": "bounced",
	"5": "pending",
	"6": "",
}

// promptCriteria walks the user through the filters when none were given on
// the command line. Prompts go to stderr; stdout stays reserved for the
// report so it can still be piped.
func promptCriteria(r io.Reader, w io.Writer) filtering.Input {
	reader := bufio.NewReader(r)
	fmt.Fprintln(w, "\n=== Mailcow Email Tracking Report ===")
	fmt.Fprintln(w)

	var in filtering.Input
	in.Search = ask(reader, w, "Search for (email, domain, or partial): ")

	fmt.Fprintln(w, "\nSearch type:")
	fmt.Fprintln(w, "1. Sender (FROM address)")
	fmt.Fprintln(w, "2. Recipient (TO address)")
	fmt.Fprintln(w, "3. Both sender and recipient")
	choice := askDefault(reader, w, "Choose [1-3] (default: 3): ", "3")
	in.Type = searchTypeChoices[choice]

	fmt.Fprintln(w, "\nFilter by delivery status:")
	fmt.Fprintln(w, "1. Sent")
	fmt.Fprintln(w, "2. Blocked")
	fmt.Fprintln(w, "3. Deferred")
	fmt.Fprintln(w, "4. Bounced")
	fmt.Fprintln(w, "5. Pending")
	fmt.Fprintln(w, "6. All statuses (no filter)")
	choice = askDefault(reader, w, "Choose [1-6] (default: 6): ", "6")
	in.Status = statusChoices[choice]

	date := ask(reader, w, "\nFilter by date (e.g. '5 Dec', 'Dec 5', or '3' for last 3 days, or blank): ")
	switch {
	case strings.EqualFold(date, "all"):
	case isLookback(date):
		in.Days = date
	default:
		in.Date = date
	}
	if in.Date != "" {
		in.Time = ask(reader, w, "Filter by time (e.g. '23:46:06' or blank): ")
	}

	return in
}

func ask(r *bufio.Reader, w io.Writer, prompt string) string {
	fmt.Fprint(w, prompt)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

func askDefault(r *bufio.Reader, w io.Writer, prompt, def string) string {
	if answer := ask(r, w, prompt); answer != "" {
		return answer
	}
	return def
}

func isLookback(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
