package tests

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/suite"

	sel "github.com/goserg/chesstable/tests/selectors"
)

type WebSuite struct {
	suite.Suite
	process *Process
}

var (
	serverBinPath string
	configPath    string
)

func init() {
	flag.StringVar(&serverBinPath, "server-bin", "", "path to the server binary")
	flag.StringVar(&configPath, "config", "", "path to the config directory")
}

func (s *WebSuite) SetupSuite() {
	s.Require().NotEmpty(serverBinPath, "-server-bin MUST be set")
	args := []string{"-serve"}
	if configPath != "" {
		args = append(args, "-config", configPath)
	}
	p := NewProcess(context.Background(), serverBinPath, args...)
	s.process = p
	if err := p.Start(context.Background()); err != nil {
		s.T().Errorf("cant start process: %v", err)
	}

	if err := waitForStartup(time.Second * 5); err != nil {
		s.T().Fatalf("unable to start app: %v", err)
	}
}

func waitForStartup(duration time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	ticker := time.NewTicker(time.Second / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r, _ := http.Get("http://0.0.0.0:3000/")
			if r != nil && r.StatusCode == http.StatusOK {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *WebSuite) TearDownSuite() {
	exitCode, err := s.process.Stop()
	if err != nil {
		s.T().Logf("cant stop process: %v", err)
	}
	s.T().Logf("process finished with code %d", exitCode)
}

func (s *WebSuite) TestHandlers() {
	ctx, cancelTimeout := context.WithTimeout(context.Background(), time.Second*10)
	defer cancelTimeout()

	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var logo string
	err := chromedp.Run(ctx,
		s.CheckGuestAccessDenied(`http://0.0.0.0:3000/api/games`),
		s.CheckGuestAccessDenied(`http://0.0.0.0:3000/api/players`),
		s.CheckGuestAccessGranted(`http://0.0.0.0:3000/`),
		s.CheckGuestAccessGranted(`http://0.0.0.0:3000/api`),
		s.CheckGuestAccessGranted(`http://0.0.0.0:3000/api/games-list`),
		s.CheckGuestAccessGranted(`http://0.0.0.0:3000/signin`),
		s.CheckGuestAccessGranted(`http://0.0.0.0:3000/signout`),
		s.CheckGuestAccessGranted(`http://0.0.0.0:3000/signup`),
		chromedp.Navigate(`http://0.0.0.0:3000/`),
		chromedp.Text(sel.Logo, &logo),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if logo != "chesstable" {
				err := errors.New("invalid logo text: " + logo)
				var screenShot []byte
				chromedp.FullScreenshot(&screenShot, 80).Do(ctx)
				if errW := os.WriteFile("invalid_logo.png", screenShot, 0o644); errW != nil {
					return errors.Join(errW, err)
				}
				return err
			}
			return nil
		}),
	)
	if err != nil {
		s.T().Fatal(err.Error())
	}
	s.Equal("chesstable", logo)
}

func (s *WebSuite) CheckGuestAccessDenied(path string) chromedp.Tasks {
	return []chromedp.Action{
		chromedp.ActionFunc(func(ctx context.Context) error {
			resp, err := chromedp.RunResponse(ctx,
				chromedp.Navigate(path))
			if err != nil {
				return err
			}
			if resp.Status != http.StatusForbidden {
				s.T().Errorf("guest access to %s must be denied (403), got %d", path, resp.Status)
			}
			return nil
		}),
	}
}

func (s *WebSuite) CheckGuestAccessGranted(path string) chromedp.Tasks {
	return []chromedp.Action{
		chromedp.ActionFunc(func(ctx context.Context) error {
			resp, err := chromedp.RunResponse(ctx,
				chromedp.Navigate(path))
			if err != nil {
				return err
			}
			if resp.Status != http.StatusOK {
				s.T().Errorf("guest access to %s must be granted (200), got %d", path, resp.Status)
			}
			return nil
		}),
	}
}
