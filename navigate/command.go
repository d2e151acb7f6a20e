package navigate

import (
	"fmt"
	"strconv"
	"strings"

	"storybook/common"
)

// ParseCommand parses textual navigation command. Commands which take an
// argument are written as "name:value", for example "jump:5" (0-based global
// page) or "story:2" (1-based story number as shown in table of contents).
// Names are case insensitive, dashes and underscores are ignored, so
// "zoom-in" and "zoomIn" are the same command.
func ParseCommand(token string) (common.Action, int, error) {
	name, value, hasValue := strings.Cut(strings.TrimSpace(token), ":")

	action, err := parseActionName(name)
	if err != nil {
		return action, 0, err
	}

	if !action.TakesArgument() {
		if hasValue {
			return action, 0, fmt.Errorf("command %s does not take argument", action)
		}
		return action, 0, nil
	}

	if !hasValue {
		return action, 0, fmt.Errorf("command %s requires argument", action)
	}
	arg, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return action, 0, fmt.Errorf("bad argument for command %s: %w", action, err)
	}
	return action, arg, nil
}

func canonical(name string) string {
	return strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(name))
}

func parseActionName(name string) (common.Action, error) {
	if action, err := common.ParseAction(name); err == nil {
		return action, nil
	}
	want := canonical(name)
	for _, n := range common.ActionNames() {
		if canonical(n) == want {
			return common.ParseAction(n)
		}
	}
	return common.Action(0), fmt.Errorf("unknown navigation command %q, expected one of %s", name, strings.Join(common.ActionNames(), ", "))
}

// Apply performs navigation action. For jump arg is 0-based global page
// index, for story it is 1-based story number, other actions ignore it.
func (s *Session) Apply(action common.Action, arg int) error {
	switch action {
	case common.ActionNext:
		s.GoToNextPage()
	case common.ActionPrev:
		s.GoToPrevPage()
	case common.ActionJump:
		s.JumpToPage(arg)
	case common.ActionStory:
		s.JumpToStory(arg - 1)
	case common.ActionBookmark:
		s.ToggleBookmark()
	case common.ActionNextBookmark:
		s.NextBookmark()
	case common.ActionPrevBookmark:
		s.PrevBookmark()
	case common.ActionZoomIn:
		s.ZoomIn()
	case common.ActionZoomOut:
		s.ZoomOut()
	case common.ActionToc:
		s.ToggleTOC()
	default:
		return fmt.Errorf("unsupported navigation action %d", action)
	}
	return nil
}
