package window

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/zurustar/star-glow/pkg/logger"
	"github.com/zurustar/star-glow/pkg/scene"
)

const (
	// HeadlessWidth はヘッドレス表示の折り返し幅
	HeadlessWidth = 72
	// headlessStep はタイマー待ちを進める刻み
	headlessStep = 50 * time.Millisecond
	// headlessSettleLimit は1コマンドあたりに待つ最大時間
	headlessSettleLimit = 10 * time.Second
	// defaultWait は wait コマンドの既定の待ち時間
	defaultWait = time.Second
)

const headlessHelp = `Commands:
  <enter>, n, next      press the selected button
  <number>              choose that button (or board cell when there are no buttons)
  cell <number>         pick a board cell
  tap <number>          tap a rhythm lane
  up, down, left, right move the cursor
  back                  go back
  wait [ms]             let time pass (default 1000)
  show                  print the screen again
  q, quit               quit`

// command は1行の入力を解釈した結果
type command struct {
	inputs []scene.Input
	wait   time.Duration
	show   bool
	help   bool
	quit   bool
}

// parseCommand はヘッドレスモードの1行を解釈する
func parseCommand(line string, f scene.Frame) (command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return command{inputs: []scene.Input{scene.Key(scene.InputConfirm)}}, nil
	}

	arg := func() (int, error) {
		if len(fields) < 2 {
			return 0, fmt.Errorf("%s needs a number", fields[0])
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return 0, fmt.Errorf("invalid number: %s", fields[1])
		}
		return n - 1, nil
	}

	switch fields[0] {
	case "n", "next", "ok":
		return command{inputs: []scene.Input{scene.Key(scene.InputConfirm)}}, nil
	case "up", "u":
		return command{inputs: []scene.Input{scene.Key(scene.InputUp)}}, nil
	case "down", "d":
		return command{inputs: []scene.Input{scene.Key(scene.InputDown)}}, nil
	case "left", "l":
		return command{inputs: []scene.Input{scene.Key(scene.InputLeft)}}, nil
	case "right", "r":
		return command{inputs: []scene.Input{scene.Key(scene.InputRight)}}, nil
	case "back", "b":
		return command{inputs: []scene.Input{scene.Key(scene.InputBack)}}, nil
	case "cell", "c":
		n, err := arg()
		if err != nil {
			return command{}, err
		}
		return command{inputs: []scene.Input{scene.Cell(n)}}, nil
	case "tap", "t":
		n, err := arg()
		if err != nil {
			return command{}, err
		}
		return command{inputs: []scene.Input{scene.Tap(n)}}, nil
	case "wait", "w":
		if len(fields) < 2 {
			return command{wait: defaultWait}, nil
		}
		ms, err := strconv.Atoi(fields[1])
		if err != nil || ms < 0 {
			return command{}, fmt.Errorf("invalid duration: %s", fields[1])
		}
		return command{wait: time.Duration(ms) * time.Millisecond}, nil
	case "show", "s":
		return command{show: true}, nil
	case "help", "h", "?":
		return command{help: true}, nil
	case "q", "quit", "exit":
		return command{quit: true}, nil
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		return command{}, fmt.Errorf("unknown command: %s", fields[0])
	}
	if len(f.Options) == 0 && f.Board != nil {
		if f.Board.Kind == scene.BoardLanes {
			return command{inputs: []scene.Input{scene.Tap(n - 1)}}, nil
		}
		return command{inputs: []scene.Input{scene.Cell(n - 1)}}, nil
	}
	return command{inputs: []scene.Input{scene.Choose(n - 1)}}, nil
}

// settle はタイマー待ちが終わるまで進める
func settle(d Director) {
	for elapsed := time.Duration(0); elapsed < headlessSettleLimit && d.Busy(); elapsed += headlessStep {
		d.Update(headlessStep)
	}
}

// advance は時間を dt だけ進め、その後タイマー待ちを終わらせる
func advance(d Director, dt time.Duration) {
	for dt > 0 {
		step := min(dt, headlessStep)
		d.Update(step)
		dt -= step
	}
	settle(d)
}

func writeFrame(w io.Writer, f scene.Frame) {
	fmt.Fprintln(w)
	for _, l := range scene.RenderText(f, HeadlessWidth) {
		fmt.Fprintln(w, l)
	}
}

// RunHeadless ヘッドレスモード（標準入出力）でゲームを実行する
// 入力が閉じられるか、q が入力されるか、タイムアウトすると終了する
func RunHeadless(d Director, timeout time.Duration, reader io.Reader, writer io.Writer) error {
	log := logger.GetLogger()

	// タイムアウト処理用のコンテキスト
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// 入力は別のgoroutineで読み、ゲームの操作はこのgoroutineだけで行う
	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(reader)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- scanner.Err()
	}()

	d.Update(0)
	writeFrame(writer, d.Frame())
	fmt.Fprintln(writer, "(type 'help' for commands)")

	for {
		fmt.Fprint(writer, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(writer)
			log.Info("Timeout reached, terminating")
			return nil
		case err := <-errCh:
			fmt.Fprintln(writer)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		case line := <-lines:
			cmd, err := parseCommand(line, d.Frame())
			if err != nil {
				fmt.Fprintln(writer, err)
				continue
			}
			switch {
			case cmd.quit:
				return nil
			case cmd.help:
				fmt.Fprintln(writer, headlessHelp)
				continue
			case cmd.show:
				writeFrame(writer, d.Frame())
				continue
			}
			for _, in := range cmd.inputs {
				d.Handle(in)
			}
			advance(d, cmd.wait)
			writeFrame(writer, d.Frame())
		}
	}
}
