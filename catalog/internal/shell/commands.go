package shell

import (
	"context"
	"strconv"
	"strings"

	"github.com/Astemirdum/livraria/catalog/internal/errs"
	"github.com/Astemirdum/livraria/catalog/internal/modal"
	"github.com/Astemirdum/livraria/catalog/internal/query"
	"github.com/Astemirdum/livraria/catalog/internal/view"
)

type command string

const (
	cmdList    command = "list"
	cmdFilter  command = "filter"
	cmdSort    command = "sort"
	cmdNext    command = "next"
	cmdPrev    command = "prev"
	cmdAdd     command = "add"
	cmdEdit    command = command(view.ActionEdit)
	cmdSet     command = "set"
	cmdSave    command = "save"
	cmdRemove  command = command(view.ActionRemove)
	cmdBorrow  command = command(view.ActionBorrow)
	cmdName    command = "name"
	cmdHistory command = command(view.ActionHistory)
	cmdReturn  command = command(view.ActionReturn)
	cmdClose   command = "close"
	cmdHelp    command = "help"
	cmdExit    command = "exit"
)

// Dispatch runs one command line and reports whether the shell should quit.
func (s *Shell) Dispatch(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch command(strings.ToLower(name)) {
	case "":
	case cmdList:
		err = s.ctrl.Load(ctx)
	case cmdFilter:
		s.ctrl.SetFilter(ctx, arg)
	case cmdSort:
		var key query.SortKey
		if key, err = query.ParseSortKey(arg); err == nil {
			err = s.ctrl.ToggleSort(ctx, key)
		}
	case cmdNext:
		if lv := s.ctrl.List(); !lv.Pagination.NextEnabled {
			err = usage("já está na última página")
			break
		}
		err = s.ctrl.ChangePage(ctx, 1)
	case cmdPrev:
		if lv := s.ctrl.List(); !lv.Pagination.PrevEnabled {
			err = usage("já está na primeira página")
			break
		}
		err = s.ctrl.ChangePage(ctx, -1)
	case cmdAdd:
		err = s.add(ctx)
	case cmdEdit:
		err = s.withID(arg, func(id int64) error {
			if err := s.ctrl.OpenEdit(id); err != nil {
				return err
			}
			s.printForm()
			return nil
		})
	case cmdSet:
		field, value, ok := strings.Cut(arg, " ")
		if !ok {
			err = usage("set <titulo|autor|ano> <valor>")
			break
		}
		if err = s.ctrl.SetEditField(field, strings.TrimSpace(value)); err == nil {
			s.printForm()
		}
	case cmdSave:
		err = s.ctrl.SaveEdit(ctx)
	case cmdRemove:
		err = s.withID(arg, func(id int64) error { return s.ctrl.Delete(ctx, id) })
	case cmdBorrow:
		err = s.withID(arg, func(id int64) error {
			if err := s.ctrl.OpenBorrow(id); err != nil {
				return err
			}
			_, title, _ := s.ctrl.BorrowTarget()
			s.printf("Emprestar \"%s\". Informe: name <nome do usuário>\n", title)
			return nil
		})
	case cmdName:
		err = s.ctrl.Borrow(ctx, arg)
	case cmdHistory:
		err = s.withID(arg, func(id int64) error { return s.ctrl.ShowHistory(ctx, id) })
	case cmdReturn:
		err = s.withID(arg, func(id int64) error { return s.ctrl.ReturnLoan(ctx, id) })
	case cmdClose:
		if k := s.ctrl.Dismiss(); k == modal.KindNone {
			err = usage("nenhum diálogo aberto")
		}
	case cmdHelp:
		s.println(helpText)
	case cmdExit:
		s.ctrl.Close()
		s.println("Até logo!")
		return true
	default:
		s.println("Comando desconhecido. Digite 'help'.")
	}
	s.report(err)
	return false
}

// add collects the create form one field at a time; the form starts
// empty on every call.
func (s *Shell) add(ctx context.Context) error {
	title, ok := s.ask("Título")
	if !ok {
		return nil
	}
	author, ok := s.ask("Autor")
	if !ok {
		return nil
	}
	year, ok := s.ask("Ano")
	if !ok {
		return nil
	}
	return s.ctrl.Create(ctx, title, author, year)
}

func (s *Shell) printForm() {
	form, open := s.ctrl.EditForm()
	if !open {
		return
	}
	s.printf("Editando livro %d: titulo=%q autor=%q ano=%q\n", form.ID, form.Title, form.Author, form.Year)
}

func (s *Shell) withID(arg string, f func(id int64) error) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return usage("informe um id numérico")
	}
	return f(id)
}

func usage(msg string) error {
	return errs.NewValidation("", msg)
}
