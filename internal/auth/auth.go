// Package auth stores provider API keys in the OS keychain, with an
// environment-variable fallback for headless setups.
package auth

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const serviceName = "simplylegal"

// Services with managed credentials.
const (
	ServiceOpenAI = "openai"
	ServiceGemini = "gemini"
)

type credential struct {
	account string
	envVar  string
}

var credentials = map[string]credential{
	ServiceOpenAI: {account: "openai-api-key", envVar: "OPENAI_API_KEY"},
	ServiceGemini: {account: "gemini-api-key", envVar: "GEMINI_API_KEY"},
}

// Known reports whether service has a managed credential.
func Known(service string) bool {
	_, ok := credentials[service]
	return ok
}

// EnvVar returns the environment variable consulted for service.
func EnvVar(service string) string {
	return credentials[service].envVar
}

// GetKey retrieves the API key for a service (openai or gemini) along
// with its source. The keychain is consulted first; the environment
// variable only when allowEnv is set.
func GetKey(service string, allowEnv bool) (string, string) {
	cred, ok := credentials[service]
	if !ok {
		return "", ""
	}

	key, err := keyring.Get(serviceName, cred.account)
	if err == nil && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), "Keychain"
	}

	if allowEnv {
		if key := strings.TrimSpace(os.Getenv(cred.envVar)); key != "" {
			return key, "Environment Variable"
		}
	}

	return "", ""
}

// SaveKey saves the key for a service to the OS keychain.
func SaveKey(service, key string) error {
	cred, ok := credentials[service]
	if !ok {
		return fmt.Errorf("unknown service %q", service)
	}
	return keyring.Set(serviceName, cred.account, strings.TrimSpace(key))
}

// DeleteKey removes the key for a service from the OS keychain.
func DeleteKey(service string) error {
	cred, ok := credentials[service]
	if !ok {
		return fmt.Errorf("unknown service %q", service)
	}
	return keyring.Delete(serviceName, cred.account)
}

// GetStatus returns whether a key exists for a service in the keychain.
func GetStatus(service string) bool {
	cred, ok := credentials[service]
	if !ok {
		return false
	}
	key, err := keyring.Get(serviceName, cred.account)
	return err == nil && strings.TrimSpace(key) != ""
}

// PromptForAPIKey securely prompts the user for their API key.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Print(prompt)
	byteKey, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after hidden input
	return strings.TrimSpace(string(byteKey)), nil
}

// GetEnvKey retrieves the key from the environment only.
func GetEnvKey(service string) (string, bool) {
	cred, ok := credentials[service]
	if !ok {
		return "", false
	}
	key := strings.TrimSpace(os.Getenv(cred.envVar))
	if key == "" {
		return "", false
	}
	return key, true
}
