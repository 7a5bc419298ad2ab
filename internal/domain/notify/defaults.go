package notify

import "assistec/internal/domain/entities"

// DefaultTemplates are used until an admin saves custom ones.
func DefaultTemplates() map[entities.TemplateKey]string {
	return map[entities.TemplateKey]string{
		entities.TemplateAwaitingApproval: `Olá {nome_cliente}!
O orçamento da sua OS #{numero_os} ({equipamento}) está pronto.
Mão de obra: {valor_mao_obra}
Peças: {valor_pecas}
Total: {valor_total}
{desconto}
{valor_final}
{observacoes}
Aprove ou recuse pelo link: {link_aprovacao}`,
		entities.TemplateReadyForPickup: `Olá {nome_cliente}!
Seu {equipamento} (OS #{numero_os}) está pronto para retirada.
{observacoes}
Endereço: {endereco}
Horário: {horario}`,
		entities.TemplateNotApproved: `Olá {nome_cliente}.
Registramos que o orçamento da OS #{numero_os} ({equipamento}) não foi aprovado.
{observacoes}
O equipamento está disponível para retirada em {endereco}, {horario}.`,
		entities.TemplateCompleted: `Olá {nome_cliente}!
A OS #{numero_os} ({equipamento}) foi concluída. Obrigado pela confiança!`,
		entities.TemplateStaffApproval: `Orçamento aprovado!
OS #{numero_os} - {equipamento}
Cliente: {nome_cliente}
Total aprovado: {valor_aprovado}`,
	}
}

// MergeTemplates returns defaults overridden by the non-empty entries of custom.
func MergeTemplates(custom map[entities.TemplateKey]string) map[entities.TemplateKey]string {
	out := DefaultTemplates()
	for k, v := range custom {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
