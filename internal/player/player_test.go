package player

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestWAV writes a 16-bit stereo WAV of the given length.
func writeTestWAV(t *testing.T, dir string, sampleRate int, length time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, "song.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	frames := int(length.Seconds() * float64(sampleRate))
	data := make([]int, frames*2)
	for i := range data {
		data[i] = (i % 200) * 100
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	return path
}

func TestIsSongAudio(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.FLAC", true},
		{"song.ogg", true},
		{"song.wav", true},
		{"song.m4a", false},
		{"song", false},
		{"notes.xml", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSongAudio(tt.path))
		})
	}
}

func TestOpenSource_WAV(t *testing.T) {
	path := writeTestWAV(t, t.TempDir(), 22050, 2*time.Second)

	f, streamer, format, err := openSource(path)
	require.NoError(t, err)
	defer f.Close()
	defer streamer.Close()

	assert.Equal(t, 22050, int(format.SampleRate))
	assert.Equal(t, 2, format.NumChannels)
	assert.Equal(t, 2*time.Second, format.SampleRate.D(streamer.Len()))

	require.NoError(t, streamer.Seek(format.SampleRate.N(time.Second)))
	assert.Equal(t, 22050, streamer.Position())
}

func TestOpenSource_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, _, err := openSource(filepath.Join(dir, "song.m4a"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, _, _, err = openSource(filepath.Join(dir, "missing.ogg"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("not a wav file at all"), 0o644))
	_, _, _, err = openSource(garbage)
	assert.Error(t, err)
}

func TestReadSongInfo_FallsBackToFileName(t *testing.T) {
	path := writeTestWAV(t, t.TempDir(), 8000, 100*time.Millisecond)

	info := readSongInfo(path)

	assert.Equal(t, path, info.Path)
	assert.Equal(t, "song", info.Title)
}

func TestSkipID3v2(t *testing.T) {
	t.Run("no tag rewinds", func(t *testing.T) {
		r := bytes.NewReader([]byte("fLaC0123456789"))
		require.NoError(t, skipID3v2(r))
		pos, _ := r.Seek(0, 1)
		assert.Equal(t, int64(0), pos)
	})

	t.Run("tag is skipped", func(t *testing.T) {
		// size 0x0101 in syncsafe: bytes 0,0,2,1 -> (2<<7)|1 = 257
		header := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 2, 1}
		data := append(header, make([]byte, 257)...)
		data = append(data, []byte("fLaC")...)
		r := bytes.NewReader(data)

		require.NoError(t, skipID3v2(r))
		pos, _ := r.Seek(0, 1)
		assert.Equal(t, int64(10+257), pos)
	})

	t.Run("short input rewinds", func(t *testing.T) {
		r := bytes.NewReader([]byte("ID3"))
		require.NoError(t, skipID3v2(r))
		pos, _ := r.Seek(0, 1)
		assert.Equal(t, int64(0), pos)
	})
}

func TestClampSample(t *testing.T) {
	assert.Equal(t, 0, clampSample(-10, 100))
	assert.Equal(t, 50, clampSample(50, 100))
	assert.Equal(t, 100, clampSample(150, 100))
	assert.Equal(t, 0, clampSample(5, -1))
}

func TestLevelToVolume(t *testing.T) {
	p := &Player{}
	tests := []struct {
		level float64
		want  float64
	}{
		{1, 0},
		{0.5, -1},
		{0.25, -2},
		{0, -10},
		{2, 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, p.levelToVolume(tt.level), 1e-9, "level %v", tt.level)
	}
}

func TestSetVolume_ClampsWithoutStream(t *testing.T) {
	p := &Player{}

	p.SetVolume(1.5)
	assert.InDelta(t, 1.0, p.Volume(), 1e-9)
	p.SetVolume(-1)
	assert.InDelta(t, 0.0, p.Volume(), 1e-9)

	p.SetMuted(true)
	assert.True(t, p.Muted())
}

func TestPlayAndSeekWithoutSource(t *testing.T) {
	p := &Player{}

	assert.ErrorIs(t, p.Play(), ErrNoSource)
	assert.ErrorIs(t, p.TrySeek(time.Second), ErrNoSource)
	_, ok := p.Song()
	assert.False(t, ok)
}
