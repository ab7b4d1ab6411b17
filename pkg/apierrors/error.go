package apierrors

import (
	"fmt"

	"taskkeeper/pkg/translator"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
)

// JsonErr represents the JSON structure for apierrors.
type JsonErr struct {
	ErrDetails Err `json:"error"`
}

// Err represents the error with a code and message. Fields carries per-field
// validation messages.
type Err struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface for JsonErr.
func (e JsonErr) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.ErrDetails.Code, e.ErrDetails.Message)
}

// CreateError generates a JsonErr with a translated message.
func CreateError(code int, msgKey string, lang string) JsonErr {
	message := GetTransErrorMsg(msgKey, lang)
	return JsonErr{ErrDetails: Err{Code: code, Message: message}}
}

// FieldMessage is a rejected field. MessageID is localized with TemplateData
// when the bundle knows it, otherwise Default is used as is.
type FieldMessage struct {
	MessageID    string
	TemplateData map[string]any
	Default      string
}

// CreateValidationError generates a JsonErr listing every rejected field.
func CreateValidationError(code int, fields map[string]FieldMessage, lang string) JsonErr {
	jsonErr := CreateError(code, MsgValidationFailed, lang)
	if len(fields) > 0 {
		jsonErr.ErrDetails.Fields = make(map[string]string, len(fields))
		for field, message := range fields {
			jsonErr.ErrDetails.Fields[field] = localizeField(message, lang)
		}
	}
	return jsonErr
}

// GetTransErrorMsg retrieves the translated error message.
func GetTransErrorMsg(msgKey string, lang string) string {
	msg, err := localize(msgKey, nil, lang)
	if err != nil {
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", msgKey), zap.Error(err))
		return msgKey
	}
	return msg
}

func localizeField(message FieldMessage, lang string) string {
	if message.MessageID == "" {
		return message.Default
	}
	msg, err := localize(message.MessageID, message.TemplateData, lang)
	if err != nil {
		zap.L().Debug("field translation not found", zap.String("lang", lang), zap.String("message_id", message.MessageID))
		return message.Default
	}
	return msg
}

func localize(msgKey string, data map[string]any, lang string) (string, error) {
	l := i18n.NewLocalizer(translator.Translator, lang, "en")
	m := i18n.LocalizeConfig{}
	m.MessageID = msgKey
	m.TemplateData = data
	return l.Localize(&m)
}
