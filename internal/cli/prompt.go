package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptForInstruction asks for an edit instruction until a non-blank line is
// entered. It returns io.EOF if input ends first.
func PromptForInstruction(in *bufio.Reader, out io.Writer) (string, error) {
	for {
		fmt.Fprint(out, "Describe the edit: ")
		line, err := in.ReadString('\n')
		if text := strings.TrimSpace(line); text != "" {
			return text, nil
		}
		if err != nil {
			return "", err
		}
	}
}
