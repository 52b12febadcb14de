package i18n

import (
	"github.com/louisbranch/identpanel/internal/identifiers"
	apperrors "github.com/louisbranch/identpanel/internal/platform/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var portugueseMessages = map[string]string{
	KeyAppName:        "identpanel",
	KeyLangEnglish:    "Inglês",
	KeyLangPortuguese: "Português (Brasil)",

	KeyHomeTitle:       "Consulta de identificadores",
	KeyHomePlayerLabel: "Licença do jogador",
	KeyHomeActionLabel: "ID da ação",
	KeyHomeOpen:        "Abrir",

	KeyPlayerTitle:      "Jogador %s",
	KeyPlayerTabIDs:     "IDs",
	KeyPlayerTabLast:    "Última conexão",
	KeyActionTitle:      "Ação %s",
	KeyActionSummary:    "%s por %s: %s",
	KeyActionUnlinks:    "Identificadores desvinculados: %d",
	KeyActionLastUnlink: "Último desvínculo por %s em %s",

	KeyLoginTitle:      "Entrar como operador",
	KeyLoginGrantLabel: "Credencial do operador",
	KeyLoginSubmit:     "Entrar",

	KeyUnlinksTitle: "Desvínculos recentes",
	KeyUnlinksEmpty: "Nenhum identificador foi desvinculado ainda.",

	KeyLabelCopy:       "Copiar",
	KeyLabelUnlink:     "Desvincular",
	KeyLabelHistorical: "não vinculado",
	KeyLabelOperator:   "Operador",
	KeyLabelUnknown:    "Desconhecido",

	KeyErrorCSRF:   "Origem da requisição não permitida.",
	KeyErrorMethod: "Método não permitido.",

	KeyConsoleHelp:        "tab painel · ←/→ lista · ↑/↓ selecionar · c copiar · u desvincular · r atualizar · q sair",
	KeyConsoleLoading:     "Carregando...",
	KeyConsoleLoadFailed:  "Falha ao carregar dados:",
	KeyConsoleNoSelection: "Selecione primeiro um identificador vinculado.",

	identifiers.MsgActionIDsTitle:     "Identificadores alvo",
	identifiers.MsgActionIDsEmpty:     "Esta ação não tem identificadores alvo.",
	identifiers.MsgActionHWIDsTitle:   "IDs de hardware alvo",
	identifiers.MsgActionHWIDsEmpty:   "Esta ação não tem IDs de hardware alvo.",
	identifiers.MsgPlayerIDsTitle:     "Identificadores do jogador",
	identifiers.MsgPlayerIDsEmpty:     "Este jogador não tem identificadores.",
	identifiers.MsgPlayerHWIDsTitle:   "IDs de hardware do jogador",
	identifiers.MsgPlayerHWIDsEmpty:   "Este jogador não tem IDs de hardware.",
	identifiers.MsgLastConnTitle:      "Última conexão",
	identifiers.MsgLastConnIDsTitle:   "Ids",
	identifiers.MsgLastConnIDsEmpty:   "Este jogador não tem identificadores.",
	identifiers.MsgCopied:             "Copiado!",
	identifiers.MsgUnlinking:          "Desvinculando identificador...",
	identifiers.MsgCopyFailed:         "Falha ao copiar para a área de transferência :(",
	identifiers.MsgCopyErrorTitle:     "Falha ao copiar para a área de transferência:",
	identifiers.MsgUnlinkFailedTitle:  "Falha ao desvincular identificador:",
	identifiers.MsgUnlinkNoResponse:   "O servidor não respondeu.",
	identifiers.MsgClipboardMissing:   "Nenhuma área de transferência disponível.",
	identifiers.MsgTimestampUnknown:   "??/??/????, ??:??",
	identifiers.MsgUnlinkNotPermitted: "Você não tem permissão para desvincular identificadores.",

	ErrorKey(apperrors.CodeUnknown):             "Algo deu errado.",
	ErrorKey(apperrors.CodeInvalidRequest):      "A requisição é inválida.",
	ErrorKey(apperrors.CodePlayerRefInvalid):    "Informe a licença do jogador ou o par mutex e netid.",
	ErrorKey(apperrors.CodeActionIDEmpty):       "Informe o ID da ação.",
	ErrorKey(apperrors.CodeIdentifierEmpty):     "Informe o identificador.",
	ErrorKey(apperrors.CodeIdentifierKindBad):   "Tipo de identificador desconhecido.",
	ErrorKey(apperrors.CodeFixtureInvalid):      "O arquivo de dados é inválido.",
	ErrorKey(apperrors.CodeGrantMissing):        "É necessária uma credencial de operador.",
	ErrorKey(apperrors.CodeGrantInvalid):        "A credencial de operador é inválida.",
	ErrorKey(apperrors.CodeGrantExpired):        "A credencial de operador expirou.",
	ErrorKey(apperrors.CodePermissionDenied):    "Você não tem permissão para fazer isso.",
	ErrorKey(apperrors.CodePlayerNotFound):      "Jogador não encontrado.",
	ErrorKey(apperrors.CodeActionNotFound):      "Ação não encontrada.",
	ErrorKey(apperrors.CodeIdentifierNotLinked): "Este identificador não está mais vinculado.",
	ErrorKey(apperrors.CodeStoreUnavailable):    "O armazenamento está indisponível.",
}

func init() {
	lang := language.MustParse("pt-BR")

	for key, value := range portugueseMessages {
		message.SetString(lang, key, value)
	}
}
