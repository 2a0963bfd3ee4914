package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/notewire/notewire/internal/access"
	"github.com/notewire/notewire/internal/editor"
	"github.com/notewire/notewire/internal/models"
	"github.com/notewire/notewire/internal/store"
)

// edit runs the interactive editing loop for a note. Typed lines are
// appended to the buffer; ":" commands control the session:
//
//	:title <text>  rename the note
//	:show          print the buffer
//	:reload        refetch the note from the server
//	:override      force edit mode for an owned note the server marked read-only
//	:q             save and leave the editor
//
// While the editor is open, remote updates delivered through the realtime
// channel are folded into the buffer.
func (a *App) edit(ctx context.Context, n models.Note) error {
	user := a.sessions.Current().User
	override := false

	buf := editor.NewBuffer(n)
	ch := a.sessions.Channel()

	saver := editor.NewSaver(a.api, ch, a.notes, a.notify, a.editorConfig(), a.log)
	defer saver.Close()

	if ch != nil {
		ch.JoinNote(n.ID)
		defer ch.LeaveNote(n.ID)
	}

	// Fold remote updates into the buffer while editing.
	events, cancel := a.notes.Watch()
	defer cancel()
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case ev := <-events:
				if !models.SameID(ev.NoteID, n.ID) {
					continue
				}
				if current, ok := a.notes.Get(n.ID); ok {
					// Only pushes from other clients get announced; local
					// causes (saves, :reload) resync silently.
					if buf.Resync(current, ev.Cause) && ev.Cause == store.CauseRemote {
						a.printf("\n(note updated by a collaborator)\n")
					}
				}
			case <-done:
				return
			}
		}
	}()

	a.banner(n, user, override)

	for {
		a.printf("%s| ", editPrompt(buf))
		line, err := a.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, ":") {
			quit, err := a.editCommand(ctx, buf, saver, line, user, &override)
			if err != nil {
				a.printf("Error: %v\n", err)
			}
			if quit {
				break
			}
			continue
		}

		current, _ := a.notes.Get(n.ID)
		if current.ID.IsZero() {
			current = n
		}
		if !access.Effective(current, user, override) {
			a.printf("You have read-only access to this note.\n")
			if access.OwnershipMismatch(current, user) {
				a.printf("You own it; type :override to edit anyway.\n")
			}
			continue
		}

		buf.AppendLine(line)
		id, content, title := buf.Snapshot()
		saver.OnChange(id, content, title)
	}

	saver.Flush()
	return nil
}

func (a *App) editCommand(ctx context.Context, buf *editor.Buffer, saver *editor.SaveCoordinator, line string, user models.UserRef, override *bool) (bool, error) {
	cmd, rest, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")

	switch cmd {
	case "q", "quit", "wq":
		return true, nil

	case "title":
		title := strings.TrimSpace(rest)
		if title == "" {
			return false, errors.New("usage: :title <text>")
		}
		current, _ := a.notes.Get(buf.NoteID())
		if !access.Effective(current, user, *override) {
			return false, errors.New("you have read-only access to this note")
		}
		buf.SetTitle(title)
		id, content, t := buf.Snapshot()
		saver.OnChange(id, content, t)
		return false, nil

	case "show":
		a.printf("# %s\n%s\n", buf.Title(), buf.Content())
		return false, nil

	case "reload":
		n, err := a.api.GetNote(ctx, buf.NoteID())
		if err != nil {
			return false, err
		}
		a.notes.SetCurrent(n)
		buf.Resync(n, store.CauseList)
		a.printf("Reloaded.\n")
		return false, nil

	case "override":
		current, _ := a.notes.Get(buf.NoteID())
		if !access.IsOwner(current, user) {
			return false, errors.New("only the owner can override")
		}
		*override = true
		a.printf("Edit mode forced on.\n")
		return false, nil

	default:
		return false, errors.New("unknown command :" + cmd)
	}
}

func (a *App) banner(n models.Note, user models.UserRef, override bool) {
	a.printf("-- editing %q --\n", n.Title)
	if n.Content != "" {
		a.printf("%s\n", n.Content)
	}
	if !access.Effective(n, user, override) {
		a.printf("(read-only")
		if access.OwnershipMismatch(n, user) {
			a.printf("; you own this note, :override to edit")
		}
		a.printf(")\n")
	}
	a.printf("Type to append lines; :show, :title <t>, :reload, :q to quit.\n")
}

func editPrompt(buf *editor.Buffer) string {
	if buf.Dirty() {
		return "*"
	}
	return " "
}
