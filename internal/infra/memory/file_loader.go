package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"trivia-service/internal/domain"
)

// FileBankLoader reads a single bank from a YAML (or JSON) file. The bank ID in
// the file wins; when absent the requested ID is used.
type FileBankLoader struct {
	path string
}

func NewFileBankLoader(path string) *FileBankLoader {
	return &FileBankLoader{path: path}
}

func (l *FileBankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Bank{}, fmt.Errorf("%s: %w", l.path, domain.ErrBankNotFound)
	}
	if err != nil {
		return domain.Bank{}, err
	}

	var bank domain.Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return domain.Bank{}, fmt.Errorf("parse %s: %w", l.path, err)
	}
	if bank.ID == "" {
		bank.ID = bankID
	}
	if bank.ID != bankID {
		return domain.Bank{}, fmt.Errorf("%s holds bank %q: %w", l.path, bank.ID, domain.ErrBankNotFound)
	}
	return bank, nil
}
