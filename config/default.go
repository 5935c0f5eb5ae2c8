package config

// DefaultConfigYAML 内置默认配置，可被外部配置文件和环境变量覆盖
var DefaultConfigYAML = []byte(`
server:
  port: ":8080"
  mode: "debug"
  base_url: "http://localhost:8080"

database:
  host: "127.0.0.1"
  port: "3306"
  username: "root"
  password: "root"
  dbname: "budget"
  charset: "utf8mb4"

jwt:
  secret: "budget-default-secret-change-me"
  expire_hours: 24

login_limit:
  max_attempts: 10
  window_minutes: 1

email:
  enabled: false
  host: "smtp.example.com"
  port: 465
  username: ""
  password: ""
  from: ""

report:
  enabled: false
  cron: "0 8 * * 1"
  recipient: ""
`)
