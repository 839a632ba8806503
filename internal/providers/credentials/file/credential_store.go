package file

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
	"golang.org/x/crypto/argon2"

	"github.com/crmarques/bloxsync/credentials"
	"github.com/crmarques/bloxsync/faults"
)

const (
	credentialStoreVersion = 1

	keyLengthBytes   = 32
	nonceLengthBytes = 12
	saltLengthBytes  = 16

	defaultKDFTime    = 1
	defaultKDFMemory  = 64 * 1024
	defaultKDFThreads = 4
)

var _ credentials.Store = (*CredentialStore)(nil)

// CredentialStore keeps both platform secrets in one passphrase-encrypted
// envelope on disk. The envelope is YAML like the tool's other files, but its
// payload is sealed with argon2id-derived AES-256-GCM, not merely encoded.
type CredentialStore struct {
	path       string
	passphrase []byte
	kdf        kdfSettings

	mu sync.Mutex
}

type kdfSettings struct {
	time    uint32
	memory  uint32
	threads uint8
}

type encryptedEnvelope struct {
	Version    int    `yaml:"version"`
	Salt       string `yaml:"salt"`
	Nonce      string `yaml:"nonce"`
	Ciphertext string `yaml:"ciphertext"`
}

type credentialPayload struct {
	APIKey string `yaml:"api-key,omitempty"`
	Cookie string `yaml:"cookie,omitempty"`
}

type StoreOption func(*CredentialStore)

// WithKDFParameters overrides the argon2id work factors. The defaults are the
// production cost; tests dial them down.
func WithKDFParameters(time uint32, memoryKiB uint32, threads uint8) StoreOption {
	return func(s *CredentialStore) {
		if s == nil {
			return
		}
		if time > 0 {
			s.kdf.time = time
		}
		if memoryKiB > 0 {
			s.kdf.memory = memoryKiB
		}
		if threads > 0 {
			s.kdf.threads = threads
		}
	}
}

// NewCredentialStore opens a store handle. The passphrase may be empty for
// callers that only check existence or clear the file; Save and Load demand
// one.
func NewCredentialStore(path string, passphrase string, opts ...StoreOption) (*CredentialStore, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return nil, validationError("credential store path is required", nil)
	}

	store := &CredentialStore{
		path:       filepath.Clean(trimmedPath),
		passphrase: []byte(strings.TrimSpace(passphrase)),
		kdf: kdfSettings{
			time:    defaultKDFTime,
			memory:  defaultKDFMemory,
			threads: defaultKDFThreads,
		},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(store)
	}

	return store, nil
}

func (s *CredentialStore) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

func (s *CredentialStore) Save(_ context.Context, creds credentials.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.passphrase) == 0 {
		return validationError("credential store passphrase must not be empty", nil)
	}

	plaintext, err := yaml.Marshal(credentialPayload{APIKey: creds.APIKey, Cookie: creds.Cookie})
	if err != nil {
		return internalError("failed to encode credentials", err)
	}

	salt, err := randomBytes(saltLengthBytes)
	if err != nil {
		return internalError("failed to generate credential salt", err)
	}
	nonce, err := randomBytes(nonceLengthBytes)
	if err != nil {
		return internalError("failed to generate credential nonce", err)
	}

	sealer, err := s.cipherMode(salt)
	if err != nil {
		return err
	}
	ciphertext := sealer.Seal(nil, nonce, plaintext, nil)

	envelope := encryptedEnvelope{
		Version:    credentialStoreVersion,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}
	encoded, err := yaml.Marshal(envelope)
	if err != nil {
		return internalError("failed to encode credential envelope", err)
	}

	return writeAtomicFile(s.path, encoded, 0o600)
}

func (s *CredentialStore) Load(_ context.Context) (credentials.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.passphrase) == 0 {
		return credentials.Credentials{}, authError("credential store passphrase is required; set "+credentials.PassphraseEnvVar+" or enter it at the prompt", nil)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return credentials.Credentials{}, notFoundError("credential store not found; run auth login first", err)
		}
		return credentials.Credentials{}, internalError("failed to read credential store", err)
	}

	var envelope encryptedEnvelope
	if err := yaml.Unmarshal(data, &envelope); err != nil {
		return credentials.Credentials{}, validationError("credential store envelope is invalid", err)
	}
	if envelope.Version != credentialStoreVersion {
		return credentials.Credentials{}, validationError("credential store format version is unsupported", nil)
	}

	salt, err := base64.StdEncoding.DecodeString(envelope.Salt)
	if err != nil {
		return credentials.Credentials{}, validationError("credential store salt is invalid", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(envelope.Nonce)
	if err != nil {
		return credentials.Credentials{}, validationError("credential store nonce is invalid", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(envelope.Ciphertext)
	if err != nil {
		return credentials.Credentials{}, validationError("credential store ciphertext is invalid", err)
	}

	opener, err := s.cipherMode(salt)
	if err != nil {
		return credentials.Credentials{}, err
	}
	plaintext, err := opener.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return credentials.Credentials{}, authError("failed to decrypt the credential store with the provided passphrase", err)
	}

	var payload credentialPayload
	if err := yaml.Unmarshal(plaintext, &payload); err != nil {
		return credentials.Credentials{}, internalError("failed to decode decrypted credentials", err)
	}

	return credentials.Credentials{APIKey: payload.APIKey, Cookie: payload.Cookie}, nil
}

// Clear removes the store file. Clearing an absent store is a no-op so logout
// stays idempotent.
func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return internalError("failed to remove credential store", err)
	}
	return nil
}

func (s *CredentialStore) cipherMode(salt []byte) (cipher.AEAD, error) {
	if len(salt) == 0 {
		return nil, validationError("credential store salt is missing", nil)
	}

	key := argon2.IDKey(s.passphrase, salt, s.kdf.time, s.kdf.memory, s.kdf.threads, keyLengthBytes)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, internalError("failed to initialize credential cipher", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, internalError("failed to initialize credential cipher mode", err)
	}
	return gcm, nil
}

func randomBytes(length int) ([]byte, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return nil, err
	}
	return buffer, nil
}

func writeAtomicFile(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return internalError("failed to create credential store directory", err)
	}

	tempFile, err := os.CreateTemp(dir, ".bloxsync-credentials-*")
	if err != nil {
		return internalError("failed to create temporary credential file", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return internalError("failed to write temporary credential file", err)
	}
	if err := tempFile.Chmod(mode); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return internalError("failed to set credential file permissions", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return internalError("failed to close temporary credential file", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return internalError("failed to replace credential store file", err)
	}

	return nil
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func notFoundError(message string, cause error) error {
	return faults.NewTypedError(faults.NotFoundError, message, cause)
}

func authError(message string, cause error) error {
	return faults.NewTypedError(faults.AuthError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
