package service

import (
	"fmt"
	"strings"

	"budget/config"
	"budget/models"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务，作为导入结果与预算报告的通知出口
type EmailService struct {
	cfg       *config.EmailConfig
	recipient string
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig, recipient string) *EmailService {
	return &EmailService{cfg: cfg, recipient: recipient}
}

// SendImportResultEmail 发送 CSV 导入结果通知
func (s *EmailService) SendImportResultEmail(imp *models.CSVImport, created, skipped int) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用，请配置 BUDGET_EMAIL_ENABLED=true")
	}
	if s.recipient == "" {
		return fmt.Errorf("未配置通知收件人")
	}

	var subject, body string
	if imp.Status == models.ImportStatusFailed {
		subject = fmt.Sprintf("【记账系统】导入失败: %s", imp.Name)
		body = fmt.Sprintf(`<p>导入批次 <b>%s</b> 处理失败，未创建任何交易。</p><p>原因: %s</p>`,
			imp.Name, imp.Error)
	} else {
		subject = fmt.Sprintf("【记账系统】导入完成: %s", imp.Name)
		body = fmt.Sprintf(`<p>导入批次 <b>%s</b> 处理完成。</p><p>新建交易 %d 条，跳过重复 %d 条。</p>`,
			imp.Name, created, skipped)
	}

	return s.sendEmail(s.recipient, subject, body)
}

// SendBudgetReportEmail 发送预算执行周报
func (s *EmailService) SendBudgetReportEmail(statuses []*BudgetStatus) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用，请配置 BUDGET_EMAIL_ENABLED=true")
	}
	if s.recipient == "" {
		return fmt.Errorf("未配置通知收件人")
	}

	var sb strings.Builder
	sb.WriteString("<h3>预算执行情况</h3><table border=\"1\" cellpadding=\"6\">")
	sb.WriteString("<tr><th>预算</th><th>周期</th><th>已发生</th><th>剩余</th><th>进度</th></tr>")
	for _, st := range statuses {
		sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s ~ %s</td><td>%.2f</td><td>%.2f</td><td>%.1f%%</td></tr>",
			st.Budget.Name,
			st.From.Format("2006-01-02"),
			st.To.Format("2006-01-02"),
			float64(st.Total)/100,
			float64(st.Left)/100,
			st.Percent,
		))
	}
	sb.WriteString("</table>")

	return s.sendEmail(s.recipient, "【记账系统】预算周报", sb.String())
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}
