package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/notewire/notewire/internal/api"
	"github.com/notewire/notewire/internal/models"
	"github.com/notewire/notewire/internal/store"
)

var errNotLoggedIn = errors.New("log in first")

// List fetches a page of notes and prints it. An optional argument selects
// the page. A fetch that was superseded by a newer one is dropped silently.
func (a *App) List(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if len(args) > 0 {
		page, err := strconv.Atoi(args[0])
		if err != nil || page < 1 {
			return fmt.Errorf("bad page %q", args[0])
		}
		a.page = page
	}

	a.notes.SetLoading(true)
	res, err := a.api.ListNotes(ctx, a.page, a.cfg.PageSize, a.showArchived)
	if err != nil {
		if errors.Is(err, api.ErrCancelled) {
			return nil
		}
		a.notes.SetError(err.Error())
		return err
	}

	a.notes.ReplaceList(res.Notes)
	a.pagination = res.Pagination
	a.printList()
	return nil
}

func (a *App) printList() {
	items := a.notes.Notes()
	if len(items) == 0 {
		if a.showArchived {
			a.printf("No archived notes.\n")
		} else {
			a.printf("No notes yet. Type 'new' to create one.\n")
		}
		return
	}

	user := a.sessions.Current().User
	for i, n := range items {
		var marks []string
		if n.Archived {
			marks = append(marks, "archived")
		}
		if n.CreatedBy != nil && !models.SameUser(*n.CreatedBy, user) {
			marks = append(marks, "shared with you")
		} else if len(n.Collaborators) > 0 {
			marks = append(marks, fmt.Sprintf("%d collaborators", len(n.Collaborators)))
		}
		suffix := ""
		if len(marks) > 0 {
			suffix = " [" + strings.Join(marks, ", ") + "]"
		}
		a.printf("%3d. %-40s %s%s\n", i+1, truncate(n.Title, 40), n.LastUpdated.Format("2006-01-02 15:04"), suffix)
	}
	a.printf("Page %d of %d\n", a.pagination.CurrentPage, a.pagination.TotalPages)
}

// NextPage advances the list view if the server reported another page.
func (a *App) NextPage(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if !a.pagination.HasNextPage {
		a.printf("Already on the last page.\n")
		return nil
	}
	a.page++
	return a.List(ctx, nil)
}

// PrevPage moves the list view back one page.
func (a *App) PrevPage(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if !a.pagination.HasPrevPage || a.page <= 1 {
		a.printf("Already on the first page.\n")
		return nil
	}
	a.page--
	return a.List(ctx, nil)
}

// ToggleArchived switches the list view between active and archived notes.
func (a *App) ToggleArchived(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	a.showArchived = !a.showArchived
	a.page = 1
	return a.List(ctx, nil)
}

// New creates a note and opens it for editing.
func (a *App) New(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}

	n, err := a.api.CreateNote(ctx, title, "")
	if err != nil {
		return err
	}
	a.notes.Add(n)
	a.printf("Created %q\n", n.Title)
	return a.edit(ctx, n)
}

// Open fetches a note and enters the editor.
func (a *App) Open(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	id, err := a.resolveNote(args)
	if err != nil {
		return err
	}

	n, err := a.api.GetNote(ctx, id)
	if err != nil {
		return err
	}
	a.notes.SetCurrent(n)
	return a.edit(ctx, n)
}

// Delete removes a note after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	id, err := a.resolveNote(args)
	if err != nil {
		return err
	}

	n, ok := a.notes.Get(id)
	prompt := "Delete note? (y/N)"
	if ok {
		prompt = fmt.Sprintf("Delete %q? (y/N)", n.Title)
	}
	answer, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		a.printf("Cancelled.\n")
		return nil
	}

	if err := a.api.DeleteNote(ctx, id); err != nil {
		return err
	}
	a.notes.Remove(id)
	a.printf("Deleted.\n")
	return nil
}

// Share grants another user access to a note. Email and permission may be
// given as arguments or entered at the prompt.
func (a *App) Share(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	id, err := a.resolveNote(args)
	if err != nil {
		return err
	}

	email, permInput := "", ""
	if len(args) > 1 {
		email = args[1]
	}
	if len(args) > 2 {
		permInput = args[2]
	}
	if email == "" {
		email, err = getSimpleText(a.reader, "Collaborator email", a.out)
		if err != nil {
			return err
		}
	}
	if permInput == "" && len(args) <= 1 {
		permInput, err = getSimpleText(a.reader, "Permission (read/write)", a.out)
		if err != nil {
			return err
		}
	}
	perm := models.Permission(strings.ToLower(strings.TrimSpace(permInput)))
	if permInput == "" {
		perm = models.PermissionRead
	}

	n, err := a.api.ShareNote(ctx, id, email, perm)
	if err != nil {
		return err
	}
	a.notes.Upsert(models.PatchOf(n), store.CauseLocal)
	a.printf("Shared %q with %s (%s)\n", n.Title, email, perm)
	return nil
}

// Notices prints the notification feed and marks it read.
func (a *App) Notices(ctx context.Context) error {
	items := a.feed.Items()
	if len(items) == 0 {
		a.printf("No notices.\n")
		return nil
	}
	for _, it := range items {
		mark := " "
		if !it.Read {
			mark = "*"
		}
		a.printf("%s %s  %s\n", mark, it.At.Format("15:04:05"), it.Message)
	}
	a.feed.MarkAllRead()
	return nil
}

// resolveNote turns a command argument into a note ID. A small integer is
// treated as a 1-based index into the last listing; anything else is taken
// as a raw ID. With no argument the user is prompted.
func (a *App) resolveNote(args []string) (models.ID, error) {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	} else {
		v, err := getSimpleText(a.reader, "Note number or id", a.out)
		if err != nil {
			return "", err
		}
		arg = v
	}
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errors.New("no note given")
	}

	if idx, err := strconv.Atoi(arg); err == nil {
		items := a.notes.Notes()
		if idx < 1 || idx > len(items) {
			return "", fmt.Errorf("no note %d in the current listing", idx)
		}
		return items[idx-1].ID, nil
	}
	return models.ID(arg), nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
