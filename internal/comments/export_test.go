package comments

import "github.com/JaimeStill/annex/pkg/repository"

// Scan exposes the row scanner.
func Scan(s repository.Scanner) (Comment, error) {
	return scanComment(s)
}
