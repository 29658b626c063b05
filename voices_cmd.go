package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/kokoro-tts/tts"
)

var (
	voicesGender string
	voicesPlain  bool

	voicesCmd = &cobra.Command{
		Use:     "voices",
		Short:   "List the available voices",
		Long:    paragraph(fmt.Sprintf("\n%s the Kokoro voice catalog and the shortcut flag for each voice.", keyword("List"))),
		Example: paragraph("kokoro voices\nkokoro voices --gender female\nkokoro voices --plain"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := filterVoices(tts.Voices(), voicesGender)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if voicesPlain {
				for _, v := range list {
					fmt.Fprintln(out, v.ID)
				}
				return nil
			}
			fmt.Fprintln(out, voicesTable(list))
			return nil
		},
	}
)

func filterVoices(list []tts.Voice, gender string) ([]tts.Voice, error) {
	gender = strings.ToLower(strings.TrimSpace(gender))
	if gender == "" {
		return list, nil
	}
	if gender != string(tts.GenderMale) && gender != string(tts.GenderFemale) {
		return nil, fmt.Errorf("unknown gender %q: use %q or %q", gender, tts.GenderMale, tts.GenderFemale)
	}

	out := list[:0]
	for _, v := range list {
		if string(v.Gender) == gender {
			out = append(out, v)
		}
	}
	return out, nil
}

// shortcutFor returns the shortcut flag for a voice, if it has one.
func shortcutFor(id string) string {
	for _, s := range tts.Shortcuts() {
		if s.VoiceID == id {
			return s.Flag
		}
	}
	return ""
}

func voicesTable(list []tts.Voice) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	best := cell.Foreground(lipgloss.Color("#04B575"))

	rows := make([][]string, 0, len(list))
	for _, v := range list {
		name := v.Name
		if v.Recommended {
			name += " ⭐"
		}
		rows = append(rows, []string{v.ID, name, string(v.Gender), v.Accent, shortcutFor(v.ID)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("VOICE", "NAME", "GENDER", "ACCENT", "SHORTCUT").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row >= 0 && row < len(list) && list[row].Recommended:
				return best
			default:
				return cell
			}
		})
	return t.String()
}

func init() {
	voicesCmd.Flags().StringVarP(&voicesGender, "gender", "g", "", "only list male or female voices")
	voicesCmd.Flags().BoolVar(&voicesPlain, "plain", false, "print one voice identifier per line")
}
