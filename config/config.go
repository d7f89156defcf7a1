// Package config 提供 peerseed 统一配置管理
//
// 主 Config 结构体嵌入所有子配置，每个子配置在独立文件中定义，
// 支持从 JSON 加载、环境变量覆盖与校验。
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.IRC.Enable = true
//	cfg.IRC.Channel = "#bitcoin00"
//	cfg.IRC.LocalHost = "203.0.113.7"
//	cfg.IRC.LocalPort = 8333
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

// Config peerseed 的完整配置结构
//
//   - IRC: IRC 频道昵称宣告发现
//   - DNS: DNS 种子主机名发现
//   - Metrics: Prometheus 指标
//   - Log: 日志输出
type Config struct {
	// IRC IRC 引导配置
	IRC IRCConfig `json:"irc"`

	// DNS DNS 引导配置
	DNS DNSConfig `json:"dns"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// NewConfig 创建默认配置
//
// 两个发现渠道默认均未启用，需要调用方显式开启并提供必要参数。
func NewConfig() *Config {
	return &Config{
		IRC:     DefaultIRCConfig(),
		DNS:     DefaultDNSConfig(),
		Metrics: DefaultMetricsConfig(),
		Log:     DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if err := c.IRC.Validate(); err != nil {
		return err
	}
	if err := c.DNS.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}
