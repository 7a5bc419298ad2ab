// Package notify renders notification templates.
//
// Tokens are replaced case-sensitively; unknown tokens stay as literal text.
// {desconto}, {valor_final} and {observacoes} are optional: an empty one
// renders as nothing, and a line left blank by that is dropped.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"assistec/internal/domain/entities"
)

const (
	TokenClientName     = "{nome_cliente}"
	TokenClientNameAlt  = "{cliente_nome}"
	TokenOrderNumber    = "{numero_os}"
	TokenEquipment      = "{equipamento}"
	TokenLaborCost      = "{valor_mao_obra}"
	TokenPartsCost      = "{valor_pecas}"
	TokenSubtotal       = "{valor_total}"
	TokenDiscount       = "{desconto}"
	TokenFinalValue     = "{valor_final}"
	TokenApprovedValue  = "{valor_aprovado}"
	TokenNotes          = "{observacoes}"
	TokenApprovalLink   = "{link_aprovacao}"
	TokenAddress        = "{endereco}"
	TokenAddressAlt     = "{address}"
	TokenHours          = "{horario}"
	TokenHoursAlt       = "{business_hours}"
	TokenBusinessName   = "{empresa}"
	approvalPathPrefix  = "/approve/"
	whatsAppBaseURL     = "https://wa.me/"
	brazilCountryPrefix = "55"
)

var optionalTokens = []string{TokenDiscount, TokenFinalValue, TokenNotes}

// Vars maps tokens (braces included) to their values.
type Vars map[string]string

// Context is everything a template can refer to.
type Context struct {
	Order    entities.ServiceOrder
	Client   entities.Profile
	Settings entities.NotificationSettings
	// Origin is the public base URL used for approval links.
	Origin string
	Notes  string
}

// BuildVars computes the token values for ctx.
func BuildVars(ctx Context) Vars {
	b := ctx.Order.Budget()
	name := ctx.Client.DisplayName()

	v := Vars{
		TokenClientName:    name,
		TokenClientNameAlt: name,
		TokenOrderNumber:   fmt.Sprintf("%d", ctx.Order.OrderNumber),
		TokenEquipment:     equipmentLabel(ctx.Order),
		TokenLaborCost:     entities.FormatBRL(b.LaborCost),
		TokenPartsCost:     entities.FormatBRL(b.PartsCost),
		TokenSubtotal:      entities.FormatBRL(b.Subtotal),
		TokenApprovedValue: entities.FormatBRL(b.Total),
		TokenDiscount:      "",
		TokenFinalValue:    "",
		TokenNotes:         "",
		TokenApprovalLink:  ApprovalLink(ctx.Origin, ctx.Order.ApprovalToken),
		TokenAddress:       ctx.Settings.BusinessAddress,
		TokenAddressAlt:    ctx.Settings.BusinessAddress,
		TokenHours:         ctx.Settings.BusinessHours,
		TokenHoursAlt:      ctx.Settings.BusinessHours,
		TokenBusinessName:  ctx.Settings.BusinessName,
	}
	if b.HasDiscount() {
		line := "Desconto: " + entities.FormatBRL(b.DiscountAmount)
		if r := ctx.Order.DiscountReason; r != nil && strings.TrimSpace(*r) != "" {
			line += " (" + strings.TrimSpace(*r) + ")"
		}
		v[TokenDiscount] = line
		v[TokenFinalValue] = "Valor final: " + entities.FormatBRL(b.Total)
	}
	if n := strings.TrimSpace(ctx.Notes); n != "" {
		v[TokenNotes] = "Observações: " + n
	}
	return v
}

// Render substitutes vars into tpl.
func Render(tpl string, vars Vars) string {
	pairs := make([]string, 0, (len(vars)+len(optionalTokens))*2)
	for token, value := range vars {
		pairs = append(pairs, token, value)
	}
	for _, token := range optionalTokens {
		if _, ok := vars[token]; !ok {
			pairs = append(pairs, token, "")
		}
	}
	r := strings.NewReplacer(pairs...)

	lines := strings.Split(tpl, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if dropsLine(line, vars) {
			continue
		}
		out = append(out, strings.TrimRight(r.Replace(line), " \t"))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// dropsLine reports a line that holds only empty optional tokens.
func dropsLine(line string, vars Vars) bool {
	rest, emptied := line, false
	for _, token := range optionalTokens {
		if strings.Contains(rest, token) && vars[token] == "" {
			rest = strings.ReplaceAll(rest, token, "")
			emptied = true
		}
	}
	return emptied && strings.TrimSpace(rest) == ""
}

// ApprovalLink is the public approval page for token.
func ApprovalLink(origin, token string) string {
	if token == "" {
		return ""
	}
	return strings.TrimRight(origin, "/") + approvalPathPrefix + token
}

// WhatsAppLink builds a wa.me deep link. ok is false when phone has no digits.
// Local Brazilian numbers (10 or 11 digits) get the 55 country code.
func WhatsAppLink(phone, text string) (link string, ok bool) {
	digits := PhoneDigits(phone)
	if digits == "" {
		return "", false
	}
	if len(digits) == 10 || len(digits) == 11 {
		digits = brazilCountryPrefix + digits
	}
	q := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return whatsAppBaseURL + digits + "?text=" + q, true
}

// PhoneDigits strips everything but digits from phone.
func PhoneDigits(phone string) string {
	var sb strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func equipmentLabel(o entities.ServiceOrder) string {
	parts := []string{o.Equipment}
	if o.Brand != "" {
		parts = append(parts, o.Brand)
	}
	if o.Model != "" {
		parts = append(parts, o.Model)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
