// Package cli is an interactive terminal front end for the blog.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/client"
)

// App wires a session holder to a line-oriented terminal.
type App struct {
	holder *client.Holder
	in     *bufio.Reader
	out    io.Writer
	view   string
}

// New builds an App whose holder navigates by switching the prompt's view.
func New(api client.Backend, store client.Storage, logger *logrus.Logger, in io.Reader, out io.Writer) *App {
	a := &App{in: bufio.NewReader(in), out: out, view: client.RoutePosts}
	a.holder = client.NewHolder(api, store, a, logger)
	if !a.holder.LoggedIn() {
		a.view = client.RouteLogin
	}
	return a
}

// Navigate implements client.Navigator.
func (a *App) Navigate(route string) {
	if route == client.RouteLogin && a.view != client.RouteLogin {
		a.println("You are logged out.")
	}
	a.view = route
}

func (a *App) println(args ...any) { _, _ = fmt.Fprintln(a.out, args...) }

func (a *App) printf(format string, args ...any) { _, _ = fmt.Fprintf(a.out, format, args...) }

func (a *App) prompt() string {
	if s := a.holder.Session(); s != nil {
		return fmt.Sprintf("blog [%s] %s> ", s.Name, a.view)
	}
	return fmt.Sprintf("blog %s> ", a.view)
}

// Run reads commands until exit or end of input.
func (a *App) Run(ctx context.Context) error {
	for {
		a.printf("%s", a.prompt())
		line, err := a.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) > 0 {
			if quit := a.dispatch(ctx, fields[0], fields[1:]); quit {
				return nil
			}
		}
		if err != nil {
			a.println()
			return nil
		}
	}
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) (quit bool) {
	switch cmd {
	case "help":
		a.help()
	case "register":
		a.register(ctx)
	case "login":
		a.login(ctx)
	case "logout":
		a.holder.LogOut(ctx)
	case "list", "l":
		a.list(ctx)
	case "show":
		a.withID(args, func(id int64) { a.show(ctx, id) })
	case "new":
		a.create(ctx)
	case "edit":
		a.withID(args, func(id int64) { a.edit(ctx, id) })
	case "delete":
		a.withID(args, func(id int64) { a.remove(ctx, id) })
	case "exit", "quit":
		a.println("Bye!")
		return true
	default:
		a.println("Unknown command:", cmd)
	}
	return false
}

func (a *App) help() {
	if a.holder.LoggedIn() {
		a.println("Commands: list, show <id>, new, edit <id>, delete <id>, logout, exit")
		return
	}
	a.println("Commands: register, login, exit")
}

func (a *App) withID(args []string, fn func(int64)) {
	if len(args) != 1 {
		a.println("Usage: <command> <post id>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		a.println("Post id must be a positive number.")
		return
	}
	fn(id)
}

// fill reads each field into the holder's form, stopping at the first input error.
func (a *App) fill(fields ...string) bool {
	for _, f := range fields {
		var (
			v   string
			err error
		)
		switch f {
		case client.FieldLoginPassword, client.FieldRegisterPassword:
			v, err = readSecret(a.in, a.out)
		case client.FieldRegisterName:
			v, err = readLine(a.in, a.out, "Name")
		default:
			v, err = readLine(a.in, a.out, "Email")
		}
		if err != nil {
			a.println("Input error:", err)
			return false
		}
		_ = a.holder.ChangeField(f, v)
	}
	return true
}

func (a *App) login(ctx context.Context) {
	defer a.holder.ResetInputs()
	if !a.fill(client.FieldLoginEmail, client.FieldLoginPassword) {
		return
	}
	if a.holder.LoginDisabled() {
		a.println("Enter a valid email and a password of at least 6 characters.")
		return
	}
	if !a.holder.LoginFromForm(ctx) {
		a.println("Login failed: wrong email or password.")
		return
	}
	a.view = client.RoutePosts
	a.printf("Welcome back, %s.\n", a.holder.Session().Name)
}

func (a *App) register(ctx context.Context) {
	defer a.holder.ResetInputs()
	if !a.fill(client.FieldRegisterName, client.FieldRegisterEmail, client.FieldRegisterPassword) {
		return
	}
	if a.holder.RegisterDisabled() {
		a.println("Enter a valid email and a password of at least 6 characters.")
		return
	}
	if !a.holder.RegisterFromForm(ctx) {
		a.println("Registration failed: that email may already be in use.")
		return
	}
	a.view = client.RoutePosts
	a.printf("Welcome, %s.\n", a.holder.Session().Name)
}

func (a *App) list(ctx context.Context) {
	posts, err := a.holder.ListPosts(ctx)
	if err != nil {
		a.report(err)
		return
	}
	a.view = client.RoutePosts
	if len(posts) == 0 {
		a.println("No posts yet.")
		return
	}
	for _, p := range posts {
		a.printf("#%d  %s  (by %s)\n", p.ID, p.Title, p.Author.Name)
	}
}

func (a *App) show(ctx context.Context, id int64) {
	p, err := a.holder.FetchPost(ctx, id)
	if err != nil {
		a.report(err)
		return
	}
	a.view = "/posts/" + strconv.FormatInt(id, 10)
	a.printf("#%d %s\nby %s, %s\n\n%s\n", p.ID, p.Title, p.Author.Name, p.PublishedAt.Local().Format("2006-01-02 15:04"), p.Content)
	if p.UpdatedAt != nil {
		a.printf("(edited %s)\n", p.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	if a.holder.CanModify(*p) {
		a.println("You can edit or delete this post.")
	}
}

func (a *App) create(ctx context.Context) {
	if !a.holder.LoggedIn() {
		a.println("Log in first.")
		return
	}
	title, err := readLine(a.in, a.out, "Title")
	if err != nil {
		a.println("Input error:", err)
		return
	}
	content, err := readMultiline(a.in, a.out, "Content")
	if err != nil {
		a.println("Input error:", err)
		return
	}
	if title == "" || content == "" {
		a.println("Title and content are required.")
		return
	}
	p, err := a.holder.CreatePost(ctx, title, content)
	if err != nil {
		a.report(err)
		return
	}
	a.printf("Created post #%d.\n", p.ID)
}

func (a *App) edit(ctx context.Context, id int64) {
	p, err := a.holder.FetchPost(ctx, id)
	if err != nil {
		a.report(err)
		return
	}
	if !a.holder.CanModify(*p) {
		a.println("Only the author can edit this post.")
		return
	}
	title, err := readLine(a.in, a.out, "Title (empty keeps current)")
	if err != nil {
		a.println("Input error:", err)
		return
	}
	content, err := readMultiline(a.in, a.out, "Content (empty keeps current)")
	if err != nil {
		a.println("Input error:", err)
		return
	}
	var tp, cp *string
	if title != "" {
		tp = &title
	}
	if content != "" {
		cp = &content
	}
	if tp == nil && cp == nil {
		a.println("Nothing to change.")
		return
	}
	if _, err := a.holder.EditPost(ctx, id, tp, cp); err != nil {
		a.report(err)
		return
	}
	a.printf("Updated post #%d.\n", id)
}

func (a *App) remove(ctx context.Context, id int64) {
	if err := a.holder.DeletePost(ctx, id); err != nil {
		a.report(err)
		return
	}
	a.printf("Deleted post #%d.\n", id)
}

func (a *App) report(err error) {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		a.println("Please log in.")
	case errors.Is(err, client.ErrForbidden):
		a.println("Only the author can do that.")
	case errors.Is(err, client.ErrNotFound):
		a.println("Post not found.")
	default:
		a.println("Error:", err)
	}
}
