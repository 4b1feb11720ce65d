package tui

import (
	"strings"

	"github.com/rivo/tview"

	"github.com/starford/ainotes/internal/notify"
	"github.com/starford/ainotes/internal/sidebar"
)

const labelToken = "Token"

func (u *UI) setupSignIn() {
	u.signIn = tview.NewForm()
	u.signIn.AddPasswordField(labelToken, "", 0, '*', nil)
	u.signIn.AddButton("Sign in", u.submitToken)
	u.signIn.AddButton("Quit", func() { u.app.Stop() })
	u.signIn.SetBorder(true).SetTitle(" AI Notes · Sign in ").SetTitleAlign(tview.AlignCenter)

	hint := tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter).
		SetText("[gray]Paste the session token issued by the web sign-in.[-]")

	box := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(u.signIn, 7, 0, true).
		AddItem(hint, 1, 0, false).
		AddItem(nil, 0, 1, false)
	page := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(box, 70, 0, true).
		AddItem(nil, 0, 1, false)
	u.pages.AddPage(pageSignIn, page, true, false)
}

func (u *UI) showSignIn() {
	u.tokenField().SetText("")
	u.pages.SwitchToPage(pageSignIn)
	u.app.SetFocus(u.signIn)
}

func (u *UI) tokenField() *tview.InputField {
	return u.signIn.GetFormItemByLabel(labelToken).(*tview.InputField)
}

func (u *UI) submitToken() {
	token := strings.TrimSpace(u.tokenField().GetText())
	if token == "" {
		u.setStatus(notify.LevelError, "Token is required")
		return
	}
	u.spawn(func() {
		if err := u.deps.Sessions.SetToken(u.ctx, token); err != nil {
			u.logger.Error("store session token", "error", err.Error())
			u.queue(func() { u.setStatus(notify.LevelError, "Failed to sign in") })
			return
		}
		u.queue(func() {
			u.setStatus(notify.LevelSuccess, "Signed in")
			u.navigate(sidebar.RouteHome)
		})
	})
}
