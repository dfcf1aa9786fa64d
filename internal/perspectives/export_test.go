package perspectives

import "github.com/JaimeStill/annex/pkg/repository"

// ScanAnswer exposes the answer row scanner.
func ScanAnswer(s repository.Scanner) (Answer, error) {
	return scanAnswer(s)
}
