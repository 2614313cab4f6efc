package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	assert.Equal(t, "Подписать", Translate("ru", "signButton"))
	assert.Equal(t, "Құжатқа қол қою", Translate("kk-KZ", "signButton"))
	assert.Equal(t, "Подписать", Translate("de", "signButton"))
	assert.Equal(t, "unknownKey", Translate("kk", "unknownKey"))
}

func TestSignStateTexts(t *testing.T) {
	assert.Equal(t, "Ожидает подписи", SignState("ru", "PENDING"))
	assert.Equal(t, "Мерзімі өтті", SignState("kk", "EXPIRED"))
	assert.Equal(t, "ARCHIVED", SignState("ru", "ARCHIVED"))
	assert.Equal(t, "signed", SignStateClass("SIGNED"))
	assert.Equal(t, "pending", SignStateClass("ARCHIVED"))
}

func TestMatchAcceptLanguage(t *testing.T) {
	assert.Equal(t, "kk", Match("kk-KZ,kk;q=0.9,ru;q=0.8"))
	assert.Equal(t, "ru", Match("ru-RU,ru;q=0.9,en;q=0.8"))
	assert.Equal(t, "", Match("de-DE"))
	assert.Equal(t, "", Match(""))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2 мая 2024 г., 09:30", FormatDate("ru", "2024-05-02T09:30:00Z"))
	assert.Equal(t, "2024 ж. 2 мамыр, 09:30", FormatDate("kk", "2024-05-02T09:30:00.123"))
	assert.Equal(t, "Не указано", FormatDate("ru", ""))
	assert.Equal(t, "Көрсетілмеген", FormatDate("kk", "yesterday"))
}
