package repl

const helpText = `# Reminders

Any line that is not a command adds a reminder for the selected day at the
next full hour.

| Command | Description |
|---|---|
| ` + "`/month`" + `, ` + "`/m`" + ` | Show the month calendar and the selected day |
| ` + "`/next`" + `, ` + "`/prev`" + ` | Move to the next or previous month |
| ` + "`/today`" + ` | Jump back to today |
| ` + "`/day N`" + ` | Select day N of the shown month |
| ` + "`/add [title]`" + ` | Open the reminder form for the selected day |
| ` + "`/list`" + ` | Show every reminder with its index |
| ` + "`/overdue`" + ` | Show reminders that are past due and not done |
| ` + "`/done N`" + ` | Check or uncheck reminder N |
| ` + "`/delete N`" + ` | Delete reminder N (later indexes shift down) |
| ` + "`/quit`" + ` | Exit |

Frequencies: Once, Every minute, Every 5 minutes, Every 30 minutes,
Every hour, Every day.
`
