package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tutorctl/tutorctl/internal/session"
	"github.com/tutorctl/tutorctl/internal/topic"
)

// RunPlain is the line-oriented fallback used when stdout is not a
// terminal or --plain is set. Commands start with "/"; everything else
// is sent to the assistant.
func RunPlain(mgr *session.Manager, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "tutorctl chat (plain mode). Type /help for commands, /quit to exit.")
	printTranscript(out, mgr.Active())

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := runCommand(mgr, out, line)
			if err != nil {
				fmt.Fprintln(out, "error:", err)
			}
			if quit {
				return nil
			}
			continue
		}

		sendPlain(mgr, out, line)
	}
}

func runCommand(mgr *session.Manager, out io.Writer, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/exit":
		return true, nil

	case "/help":
		printHelp(out)

	case "/new":
		s := mgr.CreateSession()
		fmt.Fprintf(out, "started %s (%s)\n", s.Title, s.ShortID())

	case "/list":
		active := mgr.Active()
		for i, s := range mgr.Sessions() {
			marker := " "
			if s.ID == active.ID {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %2d. %-30s %s  %s\n", marker, i+1, s.Title, s.ShortID(), s.UpdatedAt.Format("2006-01-02 15:04"))
		}

	case "/switch":
		if len(args) != 1 {
			return false, errors.New("usage: /switch <number|id-prefix>")
		}
		s, err := pickSession(mgr, args[0])
		if err != nil {
			return false, err
		}
		mgr.SetActive(s.ID)
		fmt.Fprintf(out, "switched to %s\n", s.Title)
		printTranscript(out, mgr.Active())

	case "/rename":
		if len(args) == 0 {
			return false, errors.New("usage: /rename <new title>")
		}
		mgr.RenameSession(mgr.Active().ID, strings.Join(args, " "))
		fmt.Fprintf(out, "renamed to %s\n", mgr.Active().Title)

	case "/delete":
		mgr.DeleteSession(mgr.Active().ID)
		fmt.Fprintf(out, "deleted; now on %s\n", mgr.Active().Title)

	case "/topic":
		topics := topic.All()
		if len(args) == 0 {
			for i, t := range topics {
				fmt.Fprintf(out, "%d. %s\n", i+1, t.Label)
			}
			fmt.Fprintln(out, "use /topic <number> to pick, /topic clear to reset")
			return false, nil
		}
		if args[0] == "clear" {
			mgr.ClearTopic(mgr.Active().ID)
			fmt.Fprintln(out, "topic cleared")
			return false, nil
		}
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil || n < 1 || n > len(topics) {
			return false, fmt.Errorf("no such topic %q", args[0])
		}
		t := topics[n-1]
		mgr.SetTopic(mgr.Active().ID, t.Prompt)
		fmt.Fprintf(out, "topic set to %s\n", t.Label)
		sendPlain(mgr, out, topic.Kickoff(t.Label))

	case "/suggest":
		prompts := topic.Suggestions(mgr.Active().Topic)
		if len(args) == 0 {
			for i, p := range prompts {
				fmt.Fprintf(out, "%d. %s\n", i+1, p)
			}
			fmt.Fprintln(out, "use /suggest <number> to send one")
			return false, nil
		}
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil || n < 1 || n > len(prompts) {
			return false, fmt.Errorf("no such suggestion %q", args[0])
		}
		sendPlain(mgr, out, prompts[n-1])

	case "/regen":
		if err := mgr.Regenerate(context.Background()); err != nil {
			return false, err
		}
		printLastReply(out, mgr.Active())

	case "/export":
		s := mgr.Active()
		name := session.ExportFilename(s)
		if err := os.WriteFile(name, []byte(session.ExportText(s)), 0644); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "exported to %s\n", name)

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
	return false, nil
}

func sendPlain(mgr *session.Manager, out io.Writer, content string) {
	if err := mgr.Send(context.Background(), content); err != nil {
		fmt.Fprintln(out, "error:", err)
		return
	}
	printLastReply(out, mgr.Active())
}

// pickSession resolves a 1-based list index or an ID prefix.
func pickSession(mgr *session.Manager, ref string) (*session.Session, error) {
	sessions := mgr.Sessions()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(sessions) {
			return nil, fmt.Errorf("no session %d", n)
		}
		return sessions[n-1], nil
	}
	var match *session.Session
	for _, s := range sessions {
		if strings.HasPrefix(s.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous prefix %q", ref)
			}
			match = s
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no session matching %q", ref)
	}
	return match, nil
}

func printTranscript(out io.Writer, s *session.Session) {
	fmt.Fprintf(out, "--- %s ---\n", s.Title)
	for _, msg := range s.Messages {
		fmt.Fprintf(out, "%s: %s\n", strings.ToUpper(string(msg.Role)), msg.Content)
	}
}

func printLastReply(out io.Writer, s *session.Session) {
	if len(s.Messages) == 0 {
		return
	}
	last := s.Messages[len(s.Messages)-1]
	fmt.Fprintf(out, "%s: %s\n", strings.ToUpper(string(last.Role)), last.Content)
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `commands:
  /new                start a new chat
  /list               list chats
  /switch <n|prefix>  switch active chat
  /rename <title>     rename the active chat
  /delete             delete the active chat
  /topic [n|clear]    list, set or clear the topic
  /suggest [n]        list or send a suggested prompt
  /regen              regenerate the last reply
  /export             write the transcript to a text file
  /quit               exit
`)
}
