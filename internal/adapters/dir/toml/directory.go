// Package toml persists the account directory in a TOML file, by default
// ~/.synctray/accounts.toml. Mutations stage in memory; Persist writes the
// file atomically via a temp-file rename.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/ldenis/synctray/internal/domain"
	"github.com/ldenis/synctray/internal/ports"
)

const (
	configName         = "config"
	configType         = "toml"
	accountsPathKey    = "accounts.path"
	accountsFileMode   = 0o600
	accountsDirMode    = 0o700
	accountsConfigDir  = ".synctray"
	accountsConfigFile = "accounts.toml"
	tempFilePattern    = ".accounts-*.toml.tmp"
)

type Directory struct {
	accountsPath string
	mu           *sync.RWMutex

	accounts []domain.Account
	onAdded  []func()
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.AccountDirectory = (*Directory)(nil)

func NewDirectory(cfg *viper.Viper) (*Directory, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, accountsConfigDir, accountsConfigFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, accountsConfigDir))
	cfg.SetDefault(accountsPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	accountsPath := cfg.GetString(accountsPathKey)
	if accountsPath == "" {
		return nil, errors.New("accounts path is empty")
	}
	accountsPath, err = normalizeAccountsPath(accountsPath)
	if err != nil {
		return nil, err
	}

	d := &Directory{accountsPath: accountsPath, mu: lockForPath(accountsPath)}
	if err := d.load(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Directory) List(ctx context.Context) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Account, len(d.accounts))
	copy(out, d.accounts)
	return out, nil
}

// Add stages a new account and persists immediately; registered
// added-account callbacks fire afterwards so observers see the stored
// state. Re-adding a known ID overwrites the stored record.
func (d *Directory) Add(ctx context.Context, account domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	replaced := false
	for i := range d.accounts {
		if d.accounts[i].ID == account.ID {
			d.accounts[i] = account
			replaced = true
			break
		}
	}
	if !replaced {
		d.accounts = append(d.accounts, account)
	}

	if err := d.Persist(ctx); err != nil {
		return err
	}

	for _, fn := range d.onAdded {
		fn()
	}
	return nil
}

func (d *Directory) Delete(ctx context.Context, id domain.AccountID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for i := range d.accounts {
		if d.accounts[i].ID == id {
			d.accounts = append(d.accounts[:i], d.accounts[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("delete %q: %w", id, domain.ErrAccountNotFound)
}

func (d *Directory) Persist(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	file := fileSchema{Version: currentSchemaVersion}
	for _, account := range d.accounts {
		file.Accounts = append(file.Accounts, toSchema(account))
	}

	return d.writeSchema(file)
}

func (d *Directory) OnAccountAdded(fn func()) {
	d.onAdded = append(d.onAdded, fn)
}

func (d *Directory) load() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	file, err := d.readSchema()
	if err != nil {
		return err
	}

	d.accounts = d.accounts[:0]
	for _, entry := range file.Accounts {
		d.accounts = append(d.accounts, fromSchema(entry))
	}
	return nil
}

func (d *Directory) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(d.accountsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read accounts file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode accounts file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (d *Directory) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(d.accountsPath), accountsDirMode); err != nil {
		return fmt.Errorf("create accounts directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode accounts file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(d.accountsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp accounts file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp accounts file: %w", err)
	}

	if err := tempFile.Chmod(accountsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp accounts file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp accounts file: %w", err)
	}

	if err := os.Rename(tempName, d.accountsPath); err != nil {
		return fmt.Errorf("replace accounts file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(d.accountsPath, accountsFileMode); err != nil {
		return fmt.Errorf("chmod accounts file: %w", err)
	}

	return nil
}

func toSchema(account domain.Account) accountSchema {
	return accountSchema{
		ID:          string(account.ID),
		LoginName:   account.LoginName,
		DisplayName: account.DisplayName,
		ServerURL:   account.ServerURL,
	}
}

func fromSchema(entry accountSchema) domain.Account {
	return domain.Account{
		ID:          domain.AccountID(entry.ID),
		LoginName:   entry.LoginName,
		DisplayName: entry.DisplayName,
		ServerURL:   entry.ServerURL,
	}
}

func normalizeAccountsPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve accounts path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
