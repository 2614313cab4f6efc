// Package i18n holds the page translations. Every function is pure: the
// locale is always passed in.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

const DefaultLocale = "ru"

var Supported = []string{"ru", "kk"}

var translations = map[string]map[string]string{
	"ru": {
		"LLP":                 "Юр. лицо",
		"Person":              "Физ. лицо",
		"iinBin":              "ИИН/БИН",
		"iin":                 "ИИН",
		"notSpecified":        "Не указано",
		"phone":               "Телефон",
		"signedAt":            "Подписано",
		"signButton":          "Подписать",
		"signers":             "Подписанты",
		"documentToSign":      "Документ для подписи",
		"created":             "Создан",
		"useApp":              "Для подписания документа используйте приложение Stroyka.kz",
		"loading":             "Загрузка документа...",
		"error":               "Ошибка",
		"retry":               "Повторить",
		"preparingSignature":  "Подготовка подписи...",
		"downloadDoc":         "Скачать документ",
		"openInNewWindow":     "Открыть документ в новом окне",
		"signLinkNotReceived": "Ссылка для подписи не получена",
		"signingError":        "Ошибка при инициации подписи. Пожалуйста, попробуйте позже.",
		"loadError":           "Не удалось загрузить документ. Пожалуйста, попробуйте позже.",
		"noSignatory":         "Подписант не указан в ссылке.",
	},
	"kk": {
		"LLP":                 "Заңды тұлға",
		"Person":              "Жеке тұлға",
		"iinBin":              "ЖСН/БСН",
		"iin":                 "ЖСН",
		"notSpecified":        "Көрсетілмеген",
		"phone":               "Телефон",
		"signedAt":            "Қол қойылды",
		"signButton":          "Құжатқа қол қою",
		"signers":             "Қол қоюшылар",
		"documentToSign":      "Қол қою үшін құжат",
		"created":             "Құрылған",
		"useApp":              "Құжатқа қол қою үшін Stroyka.kz қосымшасын пайдаланыңыз",
		"loading":             "Құжат жүктелуде...",
		"error":               "Қате",
		"retry":               "Қайталау",
		"preparingSignature":  "Қолтаңба дайындалуда...",
		"downloadDoc":         "Құжатты жүктеу",
		"openInNewWindow":     "Құжатты жаңа терезеде ашу",
		"signLinkNotReceived": "Қол қою сілтемесі алынбады",
		"signingError":        "Қол қою кезінде қате орын алды. Кейінірек қайталап көріңіз.",
		"loadError":           "Құжатты жүктеу мүмкін болмады. Кейінірек қайталап көріңіз.",
		"noSignatory":         "Сілтемеде қол қоюшы көрсетілмеген.",
	},
}

var signStates = map[string]map[string]string{
	"ru": {"SIGNED": "Подписано", "PENDING": "Ожидает подписи", "REJECTED": "Отклонено", "EXPIRED": "Истекло"},
	"kk": {"SIGNED": "Қол қойылды", "PENDING": "Қол қою күтілуде", "REJECTED": "Қабылданбады", "EXPIRED": "Мерзімі өтті"},
}

// Normalize maps a locale tag such as "kk-KZ" onto a supported locale, or the
// default.
func Normalize(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(l, "-_"); i >= 0 {
		l = l[:i]
	}
	if _, ok := translations[l]; ok {
		return l
	}
	return DefaultLocale
}

// Translate returns the text for key, falling back to the default locale and
// then to the key itself.
func Translate(locale, key string) string {
	if v, ok := translations[Normalize(locale)][key]; ok {
		return v
	}
	if v, ok := translations[DefaultLocale][key]; ok {
		return v
	}
	return key
}

func SignState(locale, state string) string {
	if v, ok := signStates[Normalize(locale)][state]; ok {
		return v
	}
	return state
}

// SignStateClass is the CSS modifier for a sign state.
func SignStateClass(state string) string {
	switch state {
	case "SIGNED":
		return "signed"
	case "REJECTED":
		return "rejected"
	case "EXPIRED":
		return "expired"
	default:
		return "pending"
	}
}

var matcher = language.NewMatcher([]language.Tag{language.Russian, language.Kazakh})

// Match picks a supported locale from an Accept-Language header. It returns
// "" when nothing matches.
func Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return ""
	}
	tag, _, conf := matcher.Match(tags...)
	if conf == language.No {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}
