package console

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
)

const (
	Yes = "y"
	No  = "n"
)

// Confirm asks a yes/no question; anything but an explicit yes is a no.
func Confirm(question string) (bool, error) {
	answer, err := Prompt(question, No, Yes)
	if err != nil {
		return false, err
	}
	return answer == Yes, nil
}

// Prompt reads one line. With constraints the answer must be one of them,
// the first one being the default shown in upper case.
func Prompt(question string, constraints ...string) (string, error) {
	if len(constraints) == 0 {
		return readLine(question)
	}
	shown := make([]string, len(constraints))
	copy(shown, constraints)
	shown[0] = strings.ToUpper(shown[0])
	response, err := readLine(fmt.Sprintf("%s [%s]: ", question, strings.Join(shown, "/")))
	if err != nil {
		return "", err
	}
	normalized := strings.ToLower(strings.TrimSpace(response))
	for _, c := range constraints {
		if normalized == c {
			return c, nil
		}
	}
	return constraints[0], nil
}

func readLine(prompt string) (string, error) {
	rl, err := readline.New(prompt)
	if err != nil {
		return "", err
	}
	defer rl.Close()
	return rl.Readline()
}
