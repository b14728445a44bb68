package database

import (
	"fmt"
	"strings"
)

type presetKind int

const (
	presetDamage presetKind = iota
	presetHealing
	presetBuff
	presetDebuff
	presetState
)

// presetText is the default description and battle message of a preset.
// Both are format strings taking the skill name.
type presetText struct {
	description string
	message     string
}

// Preset text languages. Projects whose System.json locale starts with "ja" get
// Japanese text, everything else English.
const (
	LangEnglish  = "en"
	LangJapanese = "ja"
)

var presetTexts = map[string]map[presetKind]presetText{
	LangEnglish: {
		presetDamage:  {"Uses %s.", "%%1 casts %s!"},
		presetHealing: {"Restores HP with %s.", "%%1 chants %s!"},
		presetBuff:    {"Strengthens abilities with %s.", "%%1 uses %s!"},
		presetDebuff:  {"Weakens enemies with %s.", "%%1 casts %s!"},
		presetState:   {"Inflicts a status ailment with %s.", "%%1 uses %s!"},
	},
	LangJapanese: {
		presetDamage:  {"%sを使用する", "%%1は%sを放った！"},
		presetHealing: {"%sでHPを回復する", "%%1は%sを唱えた！"},
		presetBuff:    {"%sで能力を強化する", "%%1は%sを使った！"},
		presetDebuff:  {"%sで敵を弱体化する", "%%1は%sを放った！"},
		presetState:   {"%sで状態異常を付与する", "%%1は%sを使った！"},
	},
}

// LanguageFor maps a System.json locale such as "ja_JP" to a preset language.
func LanguageFor(locale string) string {
	if strings.HasPrefix(strings.ToLower(locale), LangJapanese) {
		return LangJapanese
	}
	return LangEnglish
}

// Language returns the preset language of the project, read from System.json.
func (s *Skills) Language() (string, error) {
	doc, err := s.store.LoadSystem()
	if err != nil {
		return "", err
	}
	return LanguageFor(doc.String("locale")), nil
}

// presetText returns the default description and the battle message for a preset
// named name in the project's language. A caller-supplied description wins.
func (s *Skills) presetText(kind presetKind, name string, description *string) (string, string, error) {
	lang, err := s.Language()
	if err != nil {
		return "", "", err
	}
	text := presetTexts[lang][kind]
	desc := fmt.Sprintf(text.description, name)
	if description != nil {
		desc = *description
	}
	return desc, fmt.Sprintf(text.message, name), nil
}
