package mesh

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// ParseMTL reads the diffuse properties of every material in an MTL file.
// Texture paths are joined onto dir unless absolute.
func ParseMTL(r io.Reader, dir string) ([]Material, error) {
	var mats []Material
	var current *Material

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: newmtl without a name", lineNo)
			}
			mats = append(mats, Material{Name: fields[1], Diffuse: [3]float32{1, 1, 1}})
			current = &mats[len(mats)-1]
		case "Kd":
			if current == nil {
				continue
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: Kd needs 3 components", lineNo)
			}
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid Kd value %q", lineNo, fields[i+1])
				}
				current.Diffuse[i] = float32(f)
			}
		case "map_Kd":
			if current == nil || len(fields) < 2 {
				continue
			}
			// Options such as -s may precede the file name.
			tex := strings.ReplaceAll(fields[len(fields)-1], "\\", "/")
			if !path.IsAbs(tex) && dir != "" {
				tex = path.Join(dir, tex)
			}
			current.DiffuseTexture = tex
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mats, nil
}
