package cmd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dagucloud/ringbuf/internal/cmd"
	"github.com/dagucloud/ringbuf/internal/test"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowCommand(t *testing.T) {
	t.Run("Overwrite", func(t *testing.T) {
		th := test.SetupCommand(t)

		out := th.RunCommand(t, cmd.Window(), test.CmdTest{
			Args: []string{"window", "--capacity", "3", "a", "b", "c", "d", "e"},
		})
		// Five pushes into three slots leave the oldest value in slot 2.
		assert.Equal(t, "0 2 c\n1 0 d\n2 1 e\n", out)
	})

	t.Run("Pop", func(t *testing.T) {
		th := test.SetupCommand(t)

		out := th.RunCommand(t, cmd.Window(), test.CmdTest{
			Args: []string{"window", "--capacity", "4", "--pop", "2", "a", "b", "c"},
		})
		assert.Equal(t, "0 2 c\n", out)
	})

	t.Run("PopEverything", func(t *testing.T) {
		th := test.SetupCommand(t)

		out := th.RunCommand(t, cmd.Window(), test.CmdTest{
			Args: []string{"window", "--capacity", "2", "--pop", "2", "a", "b", "c"},
		})
		assert.Empty(t, out)
	})

	t.Run("PopTooMany", func(t *testing.T) {
		th := test.SetupCommand(t)

		err := th.RunCommandWithError(t, cmd.Window(), test.CmdTest{
			Args: []string{"window", "--capacity", "3", "--pop", "3", "a", "b"},
		})
		assert.ErrorContains(t, err, "buffer is empty")
	})

	t.Run("InvalidPop", func(t *testing.T) {
		th := test.SetupCommand(t)

		err := th.RunCommandWithError(t, cmd.Window(), test.CmdTest{
			Args: []string{"window", "--pop", "many", "a"},
		})
		assert.ErrorContains(t, err, `invalid value for --pop: "many"`)

		err = th.RunCommandWithError(t, cmd.Window(), test.CmdTest{
			Args: []string{"window", "--pop", "-1", "a"},
		})
		assert.ErrorContains(t, err, "--pop must not be negative")
	})

	t.Run("Stdin", func(t *testing.T) {
		th := test.SetupCommand(t)

		out := th.RunCommand(t, cmd.Window(), test.CmdTest{
			Args:  []string{"window", "--capacity", "2"},
			Stdin: strings.NewReader("one\ntwo\nthree\n"),
		})
		assert.Equal(t, "0 1 two\n1 0 three\n", out)
	})

	t.Run("YAMLWithMetrics", func(t *testing.T) {
		th := test.SetupCommand(t, test.WithConfig("format: yaml\n"))

		out := th.RunCommand(t, cmd.Window(), test.CmdTest{
			Args: []string{"window", "--capacity", "2", "--pop", "1", "--metrics", "a", "b", "c"},
		})

		var report struct {
			Capacity int      `yaml:"capacity"`
			Size     int      `yaml:"size"`
			Evicted  []string `yaml:"evicted"`
			Popped   []string `yaml:"popped"`
			Entries  []struct {
				Index int    `yaml:"index"`
				Slot  int    `yaml:"slot"`
				Value string `yaml:"value"`
			} `yaml:"entries"`
			Metrics []struct {
				Name  string  `yaml:"name"`
				Value float64 `yaml:"value"`
			} `yaml:"metrics"`
		}
		require.NoError(t, yaml.Unmarshal([]byte(out), &report))

		assert.Equal(t, 2, report.Capacity)
		assert.Equal(t, 1, report.Size)
		assert.Equal(t, []string{"a"}, report.Evicted)
		assert.Equal(t, []string{"b"}, report.Popped)
		require.Len(t, report.Entries, 1)
		assert.Equal(t, "c", report.Entries[0].Value)
		assert.Equal(t, 0, report.Entries[0].Slot)

		values := map[string]float64{}
		for _, m := range report.Metrics {
			values[m.Name] = m.Value
		}
		assert.Equal(t, 3.0, values["ringbuf_pushes_total"])
		assert.Equal(t, 1.0, values["ringbuf_evictions_total"])
		assert.Equal(t, 1.0, values["ringbuf_pops_total"])
		assert.Equal(t, 1.0, values["ringbuf_size"])
	})

	t.Run("TableWithMetrics", func(t *testing.T) {
		th := test.SetupCommand(t)

		th.RunCommand(t, cmd.Window(), test.CmdTest{
			Args:        []string{"window", "--capacity", "3", "--format", "table", "--metrics", "x"},
			ExpectedOut: []string{"SLOT", "VALUE", "ringbuf_pushes_total", "component=window"},
		})
	})
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	c := cmd.Version()
	c.SetOut(&out)
	c.SetArgs([]string{})
	require.NoError(t, c.Execute())
	assert.Equal(t, "0.0.0\n", out.String())
}
