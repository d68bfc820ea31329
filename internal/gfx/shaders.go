package gfx

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Artifact body vertex shader: world position and eye distance for flat
// shading and fog.
const meshVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;

out vec3 vWorld;
out float vEyeDist;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vec4 eye = uView * world;
    vWorld = world.xyz;
    vEyeDist = -eye.z;
    gl_Position = uProj * eye;
}
` + "\x00"

// Artifact body fragment shader: faceted metal with a clearcoat sheen.
// Normals come from screen-space derivatives, which gives flat shading and
// lets both faces light correctly.
const meshFragSrc = `#version 410 core

#define MAX_LIGHTS 4
#define KIND_AMBIENT 0
#define KIND_DIRECTIONAL 1
#define KIND_SPOT 2
#define KIND_POINT 3

uniform vec3 uColor;
uniform float uMetalness;
uniform float uRoughness;
uniform float uClearcoat;
uniform vec3 uCameraPos;

uniform int uLightCount;
uniform int uLightKind[MAX_LIGHTS];
uniform vec3 uLightPos[MAX_LIGHTS];
uniform vec3 uLightColor[MAX_LIGHTS]; // pre-multiplied by intensity
uniform float uLightRange[MAX_LIGHTS];
uniform vec2 uLightCone[MAX_LIGHTS];  // cos(outer), cos(inner)
uniform float uLightDecay[MAX_LIGHTS];

uniform vec3 uFogColor;
uniform float uFogDensity;

in vec3 vWorld;
in float vEyeDist;
out vec4 FragColor;

vec3 aces(vec3 x) {
    return clamp((x * (2.51 * x + 0.03)) / (x * (2.43 * x + 0.59) + 0.14), 0.0, 1.0);
}

void main() {
    vec3 n = normalize(cross(dFdx(vWorld), dFdy(vWorld)));
    vec3 v = normalize(uCameraPos - vWorld);
    if (dot(n, v) < 0.0) n = -n;

    float shininess = mix(256.0, 8.0, uRoughness);
    vec3 diffuseTint = uColor * (1.0 - uMetalness);
    vec3 specTint = mix(vec3(0.04), uColor + vec3(0.25), uMetalness);

    vec3 col = vec3(0.0);
    for (int i = 0; i < MAX_LIGHTS; i++) {
        if (i >= uLightCount) break;
        int kind = uLightKind[i];
        if (kind == KIND_AMBIENT) {
            col += uLightColor[i] * uColor;
            continue;
        }

        vec3 l;
        float atten = 1.0;
        if (kind == KIND_DIRECTIONAL) {
            l = normalize(uLightPos[i]);
        } else {
            vec3 d = uLightPos[i] - vWorld;
            float dist = length(d);
            l = d / dist;
            if (uLightRange[i] > 0.0) {
                float r = clamp(1.0 - pow(dist / uLightRange[i], 4.0), 0.0, 1.0);
                atten = r * r * pow(max(dist, 0.01), -uLightDecay[i]);
            }
            if (kind == KIND_SPOT) {
                float c = dot(-l, normalize(-uLightPos[i]));
                atten *= smoothstep(uLightCone[i].x, uLightCone[i].y, c);
            }
        }

        float ndl = max(dot(n, l), 0.0);
        vec3 h = normalize(l + v);
        float spec = pow(max(dot(n, h), 0.0), shininess);
        float coat = pow(max(dot(n, h), 0.0), 512.0) * uClearcoat;
        col += uLightColor[i] * atten * (diffuseTint * ndl + specTint * spec * ndl + vec3(coat) * ndl);
    }

    col = aces(col);
    float f = uFogDensity * vEyeDist;
    float fog = clamp(1.0 - exp(-f * f), 0.0, 1.0);
    FragColor = vec4(mix(col, uFogColor, fog), 1.0);
}
` + "\x00"

// Wireframe fragment shader: flat translucent colour with fog. Shares the
// mesh vertex shader.
const lineFragSrc = `#version 410 core

uniform vec3 uColor;
uniform float uOpacity;
uniform vec3 uFogColor;
uniform float uFogDensity;

in vec3 vWorld;
in float vEyeDist;
out vec4 FragColor;

void main() {
    float f = uFogDensity * vEyeDist;
    float fog = clamp(1.0 - exp(-f * f), 0.0, 1.0);
    FragColor = vec4(mix(uColor, uFogColor, fog), uOpacity);
}
` + "\x00"

// Particle vertex shader: size-attenuated point sprites in the spun field.
const pointVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;
uniform float uSize;  // world units
uniform float uScale; // half the drawing-buffer height, pixels

out float vEyeDist;

void main() {
    vec4 eye = uView * uModel * vec4(aPos, 1.0);
    vEyeDist = -eye.z;
    gl_Position = uProj * eye;
    gl_PointSize = max(1.0, uSize * (uScale / max(-eye.z, 0.001)));
}
` + "\x00"

// Particle fragment shader: additive glow, faded by fog.
const pointFragSrc = `#version 410 core

uniform vec3 uColor;
uniform float uOpacity;
uniform float uFogDensity;

in float vEyeDist;
out vec4 FragColor;

void main() {
    float f = uFogDensity * vEyeDist;
    float fog = clamp(1.0 - exp(-f * f), 0.0, 1.0);
    FragColor = vec4(uColor, uOpacity * (1.0 - fog));
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
