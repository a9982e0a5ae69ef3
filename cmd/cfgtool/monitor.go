package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/sync/errgroup"

	"github.com/ubloxcfg/ubloxcfg/pkg/rx"
)

func monitor(cmd *command) {
	// open receiver
	r := openReceiver(cmd)
	defer r.Close()

	// prepare state
	counts := newStats()
	log := newLogPane(200)

	// create app
	app := tview.NewApplication()

	// prepare message table
	table := tview.NewTable().
		SetFixed(1, 0).
		SetSelectable(true, false)
	table.SetBorder(true).
		SetTitle(fmt.Sprintf("Messages (%s)", r.Name()))

	// prepare log view
	logView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	logView.SetBorder(true).
		SetTitle("Log (l to focus)")

	// prepare container
	container := tview.NewFlex().SetDirection(tview.FlexRow)
	container.AddItem(table, 0, 3, true)
	container.AddItem(logView, 0, 1, false)
	app.SetRoot(container, true)

	// prepare table updater
	updateTable := func() {
		table.Clear()
		for i, header := range []string{"MESSAGE", "COUNT", "RATE", "BYTES", "INFO"} {
			table.SetCell(0, i, tview.NewTableCell(header).
				SetTextColor(tcell.ColorYellow).
				SetSelectable(false))
		}
		for i, entry := range counts.snapshot() {
			table.SetCellSimple(i+1, 0, entry.Name)
			table.SetCell(i+1, 1, tview.NewTableCell(fmt.Sprintf("%d", entry.Count)).SetAlign(tview.AlignRight))
			table.SetCell(i+1, 2, tview.NewTableCell(fmt.Sprintf("%.1f Hz", entry.Rate)).SetAlign(tview.AlignRight))
			table.SetCell(i+1, 3, tview.NewTableCell(fmt.Sprintf("%d", entry.Bytes)).SetAlign(tview.AlignRight))
			table.SetCellSimple(i+1, 4, tview.Escape(entry.Info))
		}
	}

	// prepare log updater
	updateLogView := func() {
		lines := log.lines()
		if len(lines) == 0 {
			lines = []string{"No log messages yet"}
		}
		logView.SetText(strings.Join(lines, "\n"))
		logView.ScrollToEnd()
	}

	// update views immediately and on changes
	updateTable()
	updateLogView()
	log.bind(func() {
		app.QueueUpdateDraw(updateLogView)
	})

	// handle focus switching
	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape, event.Rune() == 'q':
			app.Stop()
			return nil
		case event.Rune() == 'l':
			if table.HasFocus() {
				app.SetFocus(logView)
			} else {
				app.SetFocus(table)
			}
			return nil
		}
		return event
	})

	// prepare group
	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	// read messages
	group.Go(func() error {
		for ctx.Err() == nil {
			msg, err := r.NextMessage(100 * time.Millisecond)
			if errors.Is(err, rx.ErrTimeout) {
				continue
			} else if err != nil {
				app.Stop()
				return err
			}
			counts.add(msg)
			if line, ok := infLine(msg); ok {
				log.add(msg.Name, line)
			}
		}
		return nil
	})

	// update rates
	group.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				counts.tick(1)
				app.QueueUpdateDraw(updateTable)
			}
		}
	})

	// run app
	group.Go(func() error {
		defer cancel()
		return app.Run()
	})

	exitIfSet(group.Wait())
}
