package cam

import (
	"fmt"
	"os/exec"
	"strconv"

	"github.com/Speshl/gorrc_tello/internal/ipc"
	log "github.com/sirupsen/logrus"
)

const pixelFormat = "bgr24"

func size(geometry ipc.Geometry) string {
	return fmt.Sprintf("%dx%d", geometry.Width, geometry.Height)
}

// decodeArgs turns any ffmpeg readable input into raw frames on stdout.
// fps of 0 keeps the source rate.
func decodeArgs(input, format string, fps int, geometry ipc.Geometry) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-fflags", "nobuffer", // keep latency down, old frames are useless
		"-flags", "low_delay",
	}
	if format != "" {
		args = append(args, "-f", format)
	}
	args = append(args,
		"-i", input,
		"-an", // no audio
		"-vf", fmt.Sprintf("scale=%d:%d", geometry.Width, geometry.Height),
	)
	if fps > 0 {
		args = append(args, "-r", strconv.Itoa(fps))
	}
	return append(args,
		"-pix_fmt", pixelFormat,
		"-f", "rawvideo",
		"-",
	)
}

// encodeArgs reads raw frames from stdin and writes them to output.
func encodeArgs(output, codec, tag string, fps int, geometry ipc.Geometry) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", pixelFormat,
		"-s", size(geometry),
		"-r", strconv.Itoa(fps),
		"-i", "-",
		"-c:v", codec,
	}
	if tag != "" {
		args = append(args, "-vtag", tag)
	}
	return append(args, output)
}

func stopCommand(name string, cmd *exec.Cmd) {
	log.Printf("killing %s cmd...\n", name)
	if cmd.Process != nil {
		err := cmd.Process.Kill()
		if err != nil {
			log.Debugf("error killing %s process: %s\n", name, err.Error())
		}
	} else {
		log.Println("process was null")
	}
	cmd.Wait()
	log.Printf("killed %s cmd\n", name)
}
