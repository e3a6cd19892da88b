package main

// Built-in shaders used when the config names none. Attribute locations
// follow the RenderData category order.
const vertexShaderSource = `#version 410 core
layout(location = 0) in vec3 a_position;
layout(location = 1) in vec2 a_uv;
layout(location = 2) in vec3 a_normal;
layout(location = 3) in float a_tex_id;
layout(location = 4) in float a_tex_layer;
layout(location = 5) in vec4 a_color;

uniform mat4 u_mvp;

out vec2 v_uv;
out vec3 v_normal;
flat out float v_tex_id;
flat out float v_tex_layer;
out vec4 v_color;

void main() {
	v_uv = a_uv;
	v_normal = a_normal;
	v_tex_id = a_tex_id;
	v_tex_layer = a_tex_layer;
	v_color = a_color;
	gl_Position = u_mvp * vec4(a_position, 1.0);
}
`

const fragmentShaderSource = `#version 410 core
in vec2 v_uv;
in vec3 v_normal;
flat in float v_tex_id;
flat in float v_tex_layer;
in vec4 v_color;

uniform sampler2DArray u_textures;

out vec4 frag_color;

void main() {
	vec4 base = v_color;
	// id 32 marks untextured geometry
	if (v_tex_id < 32.0) {
		base *= texture(u_textures, vec3(v_uv, v_tex_layer));
	}
	float light = 0.35;
	if (length(v_normal) > 0.0) {
		light += 0.65 * max(dot(normalize(v_normal), normalize(vec3(0.4, 0.6, 1.0))), 0.0);
	}
	frag_color = vec4(base.rgb * light, base.a);
}
`
