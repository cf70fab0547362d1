// Package config는 viper 기반의 서비스 설정 로더입니다.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config 인터페이스는 설정 값에 액세스하기 위한 메서드를 정의합니다.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetStringSlice(key string) []string
	IsSet(key string) bool
	// Unmarshal은 전체 설정을 mapstructure 태그가 달린 구조체로 디코딩합니다.
	Unmarshal(out interface{}) error
}

type viperConfig struct {
	v *viper.Viper
}

func (c *viperConfig) GetString(key string) string        { return c.v.GetString(key) }
func (c *viperConfig) GetInt(key string) int              { return c.v.GetInt(key) }
func (c *viperConfig) GetBool(key string) bool            { return c.v.GetBool(key) }
func (c *viperConfig) GetStringSlice(key string) []string { return c.v.GetStringSlice(key) }
func (c *viperConfig) IsSet(key string) bool              { return c.v.IsSet(key) }
func (c *viperConfig) Unmarshal(out interface{}) error    { return c.v.Unmarshal(out) }

// 설정 디렉토리 경로
const configDir = "configs"

// Option은 로드 전에 viper 인스턴스를 조정합니다.
type Option func(v *viper.Viper)

// WithDefaults는 키별 기본값을 등록합니다. 기본값이 등록된 키는 환경 변수만으로도 덮어쓸 수 있습니다.
func WithDefaults(defaults map[string]interface{}) Option {
	return func(v *viper.Viper) {
		for k, val := range defaults {
			v.SetDefault(k, val)
		}
	}
}

// Load는 서비스 이름에 해당하는 설정 파일을 로드합니다.
//
// 탐색 순서: $CONFIG_PATH 또는 configs/$APP_ENV(기본 dev), 실패 시 configs/example.
// 환경 변수는 서비스 이름을 접두사로 사용하며 키의 '.'은 '_'로 바뀝니다.
// 예: payment 서비스의 gateway.key_secret → PAYMENT_GATEWAY_KEY_SECRET
func Load(serviceName string, opts ...Option) (Config, error) {
	v := viper.New()
	for _, opt := range opts {
		opt(v)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(configDir, env)
	}

	v.SetConfigName(serviceName)
	v.AddConfigPath(configPath)

	if err := v.ReadInConfig(); err != nil {
		v.AddConfigPath(filepath.Join(configDir, "example"))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("설정 파일 로드 실패: %w", err)
		}
	}

	return &viperConfig{v: v}, nil
}
