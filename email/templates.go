//
// Copyright (C) 2026 FuturExplore.  All rights reserved.
//
// learnstate is licensed under the Apache License Version 2.0.
//
//

package email

import (
	"fmt"
	"html/template"
	"strings"
)

// Lifecycle templates. Bodies are intentionally lean: the product's
// full marketing chrome lives with whatever provider renders the final
// send, this package only guarantees the data makes it into the HTML.

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<html><body>
<h1>Welcome to FuturExplore! 🚀</h1>
<p>Hi {{.ParentName}},</p>
<p>Thank you for joining FuturExplore! We're excited to help your children discover the amazing world of AI through fun, interactive missions.</p>
{{if .ChildNames}}<p>Your young explorers are ready:</p><ul>{{range .ChildNames}}<li>{{.}}</li>{{end}}</ul>
{{else}}<p>Get started by adding your child profiles to begin their AI adventure!</p>{{end}}
<p>The FuturExplore Team</p>
</body></html>`))

var profileReminderTmpl = template.Must(template.New("profileReminder").Parse(`<html><body>
<h1>Almost there! 🌟</h1>
<p>Hi {{.ParentName}},</p>
<p>We noticed you haven't completed your child profiles yet. Your young explorers are waiting to start their AI missions!</p>
<p>It only takes 2 minutes per child.</p>
<p>The FuturExplore Team</p>
</body></html>`))

var firstMissionTmpl = template.Must(template.New("firstMission").Parse(`<html><body>
<h1>Ready for your first AI mission? 🚀</h1>
<p>Hi {{.ParentName}},</p>
{{if .ChildNames}}<p>{{range $i, $n := .ChildNames}}{{if $i}}, {{end}}{{$n}}{{end}} haven't started their first mission yet.</p>{{end}}
<p>Every mission takes about ten minutes and ends with a badge to earn.</p>
<p>The FuturExplore Team</p>
</body></html>`))

var weeklySummaryTmpl = template.Must(template.New("weeklySummary").Parse(`<html><body>
<h1>{{.ChildName}}'s week at FuturExplore 📊</h1>
<p>Hi {{.ParentName}},</p>
<ul>
<li>Lessons completed: {{.LessonsCompleted}}</li>
<li>Minutes explored: {{.WeeklyMinutes}}</li>
{{if .CurrentMission}}<li>Current mission: {{.CurrentMission}}</li>{{end}}
</ul>
{{if .Achievements}}<p>New achievements:</p><ul>{{range .Achievements}}<li>{{.}}</li>{{end}}</ul>{{end}}
<p>The FuturExplore Team</p>
</body></html>`))

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.Name(), err)
	}
	return b.String(), nil
}

// NewWelcome builds the welcome message sent on registration.
func NewWelcome(to, parentName string, childNames []string) (Message, error) {
	html, err := render(welcomeTmpl, struct {
		ParentName string
		ChildNames []string
	}{parentName, childNames})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Welcome to FuturExplore! 🚀",
		HTML:    html,
	}, nil
}

// NewProfileReminder builds the complete-your-profiles reminder.
func NewProfileReminder(to, parentName string) (Message, error) {
	html, err := render(profileReminderTmpl, struct{ ParentName string }{parentName})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Complete your child profiles to start the adventure! 🌟",
		HTML:    html,
	}, nil
}

// NewFirstMissionReminder builds the start-your-first-mission reminder.
func NewFirstMissionReminder(to, parentName string, childNames []string) (Message, error) {
	html, err := render(firstMissionTmpl, struct {
		ParentName string
		ChildNames []string
	}{parentName, childNames})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Ready for your first AI mission? 🚀",
		HTML:    html,
	}, nil
}

// WeeklySummaryData carries one child's week into the summary template.
type WeeklySummaryData struct {
	ParentName       string
	ChildName        string
	LessonsCompleted int
	Achievements     []string
	WeeklyMinutes    int
	CurrentMission   string
}

// NewWeeklySummary builds one child's weekly summary message.
func NewWeeklySummary(to string, data WeeklySummaryData) (Message, error) {
	html, err := render(weeklySummaryTmpl, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Weekly Progress: %s's AI Adventure 📊", data.ChildName),
		HTML:    html,
	}, nil
}
