package tui

import "github.com/mohiniBalmiki/taxwise/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles
var (
	AppStyle               = tuistyles.AppStyle
	TitleStyle             = tuistyles.TitleStyle
	SubtitleStyle          = tuistyles.SubtitleStyle
	StatusBarStyle         = tuistyles.StatusBarStyle
	StatusKeyStyle         = tuistyles.StatusKeyStyle
	BorderStyle            = tuistyles.BorderStyle
	FieldLabelStyle        = tuistyles.FieldLabelStyle
	FocusedFieldLabelStyle = tuistyles.FocusedFieldLabelStyle
	FieldHintStyle         = tuistyles.FieldHintStyle
	HelpKeyStyle           = tuistyles.HelpKeyStyle
	HelpDescStyle          = tuistyles.HelpDescStyle
	ErrorStyle             = tuistyles.ErrorStyle
	InfoStyle              = tuistyles.InfoStyle
	TableHeaderStyle       = tuistyles.TableHeaderStyle
	TableCellStyle         = tuistyles.TableCellStyle
)

// Re-export helper functions
var (
	FormatCurrency = tuistyles.FormatCurrency
)
