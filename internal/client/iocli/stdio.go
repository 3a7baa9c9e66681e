package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio читает из in и пишет в out. Если in это терминал, пароль
// читается без эха, иначе построчно (удобно для пайпов и скриптов).
type Stdio struct {
	out    io.Writer
	reader *bufio.Reader
	fd     int
	isTerm bool
}

// NewStdio создает IO поверх os.Stdin и os.Stdout
func NewStdio() IO {
	return NewStdioFrom(os.Stdin, os.Stdout)
}

// NewStdioFrom создает IO поверх произвольных потоков
func NewStdioFrom(in io.Reader, out io.Writer) *Stdio {
	s := &Stdio{
		out:    out,
		reader: bufio.NewReader(in),
	}
	if f, ok := in.(*os.File); ok {
		s.fd = int(f.Fd())
		s.isTerm = term.IsTerminal(s.fd)
	}
	return s
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	line, err := s.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Stdio) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)
	if !s.isTerm {
		// пробелы входят в пароль, срезаем только перевод строки
		return s.readLine()
	}
	pwBytes, err := term.ReadPassword(s.fd)
	s.Println("")
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}

// readLine читает строку без завершающего \n или \r\n
func (s *Stdio) readLine() (string, error) {
	input, err := s.reader.ReadString('\n')
	if err != nil {
		// последняя строка без перевода строки
		if errors.Is(err, io.EOF) && input != "" {
			return input, nil
		}
		return "", err
	}
	return strings.TrimSuffix(strings.TrimSuffix(input, "\n"), "\r"), nil
}
