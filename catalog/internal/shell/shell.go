// Package shell is the line-oriented front end of the catalog: it reads
// commands, routes them to the controller and writes what it renders.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Astemirdum/livraria/catalog/internal/controller"
	"github.com/Astemirdum/livraria/catalog/internal/errs"
	"github.com/Astemirdum/livraria/catalog/internal/notify"
	"github.com/Astemirdum/livraria/catalog/internal/view"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	_ controller.Confirmer = (*Shell)(nil)
	_ controller.Renderer  = (*Shell)(nil)
	_ notify.Sink          = (*Shell)(nil)
)

const helpText = `Comandos:
  list                  recarrega a lista
  filter <texto>        filtra por título ou autor (vazio limpa)
  sort <titulo|autor|ano>  ordena; repetir inverte a direção
  next | prev           muda de página
  add                   novo livro
  edit <id>             abre a edição; set <campo> <valor>; save
  rm <id>               remove um livro
  borrow <id>           abre o empréstimo; name <usuário> confirma
  history <id>          histórico de empréstimos
  return <empréstimo>   registra a devolução
  close                 fecha o diálogo aberto
  help | exit`

type Shell struct {
	log *zap.Logger
	sc  *bufio.Scanner
	// lines is fed by a reader goroutine so a signal can end Run while
	// input is blocked.
	lines <-chan string
	done  <-chan struct{}
	// interactive echoes prompts; off when stdin is not a terminal.
	interactive bool
	ctrl        *controller.Controller

	mu  sync.Mutex
	out io.Writer
}

func New(log *zap.Logger, in io.Reader, out io.Writer, interactive bool) *Shell {
	return &Shell{
		log:         log.Named("shell"),
		sc:          bufio.NewScanner(in),
		out:         out,
		interactive: interactive,
	}
}

// Bind attaches the controller. The shell is built first because the
// controller renders and confirms through it.
func (s *Shell) Bind(ctrl *controller.Controller) {
	s.ctrl = ctrl
}

// Run loads the first page and serves commands until exit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	if s.ctrl == nil {
		return errors.New("shell: controller is not bound")
	}
	lines := make(chan string)
	go func() {
		defer close(lines)
		for s.sc.Scan() {
			select {
			case lines <- s.sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	s.lines, s.done = lines, ctx.Done()

	s.println("Livraria. Digite 'help' para ver os comandos.")
	s.report(s.ctrl.Load(ctx))

	for {
		s.prompt("\n> ")
		line, ok := s.readLine()
		if !ok {
			if ctx.Err() != nil {
				return nil
			}
			return s.sc.Err()
		}
		if quit := s.Dispatch(ctx, line); quit {
			return nil
		}
	}
}

// Confirm asks a yes/no question on the command input; the default is no.
func (s *Shell) Confirm(prompt string) bool {
	s.printf("%s [s/N] ", prompt)
	line, ok := s.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(line) {
	case "s", "sim", "y", "yes":
		return true
	}
	return false
}

func (s *Shell) RenderList(lv view.ListView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := view.RenderList(s.out, lv); err != nil {
		s.log.Error("RenderList", zap.Error(err))
	}
}

func (s *Shell) RenderHistory(hv view.HistoryView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := view.RenderHistory(s.out, hv); err != nil {
		s.log.Error("RenderHistory", zap.Error(err))
	}
}

func (s *Shell) Show(m notify.Message) {
	mark := "✔"
	if m.Kind == notify.Error {
		mark = "✖"
	}
	s.printf("%s %s\n", mark, m.Text)
}

// Hide is a no-op: printed lines cannot be taken back.
func (s *Shell) Hide() {}

// report prints what the notifier did not already surface.
func (s *Shell) report(err error) {
	switch {
	case err == nil, errors.Is(err, errs.ErrStale):
	case errors.Is(err, errs.ErrCancelled):
		s.println("Cancelado.")
	case errors.Is(err, errs.ErrBusy):
		s.println("Aguarde: a requisição anterior ainda está em andamento.")
	case errors.Is(err, errs.ErrNoModal):
		s.println("Nenhum diálogo aberto para este comando.")
	case errs.IsValidation(err):
		s.printf("! %s\n", errorText(err))
	default:
		s.log.Debug("command failed", zap.Error(err))
	}
}

func errorText(err error) string {
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

func (s *Shell) readLine() (string, bool) {
	select {
	case line, ok := <-s.lines:
		return strings.TrimSpace(line), ok
	case <-s.done:
		return "", false
	}
}

func (s *Shell) prompt(p string) {
	if s.interactive {
		s.printf("%s", p)
	}
}

// ask prompts for one field of a multi-line form.
func (s *Shell) ask(label string) (string, bool) {
	s.printf("%s: ", label)
	return s.readLine()
}

func (s *Shell) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(text string) {
	s.printf("%s\n", text)
}
