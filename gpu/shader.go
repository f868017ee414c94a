package gpu

// WGSL compute shader resolving a batch of RGB triples against the
// coefficient table. Each invocation handles one triple and mirrors the
// CPU lookup: achromatic closed form, max-channel cube selection and
// trilinear interpolation along the non-uniform scale axis.
const lookupShaderSource = `
struct Params {
    res: u32,
    count: u32,
    pad0: u32,
    pad1: u32,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read> z_nodes: array<f32>;
@group(0) @binding(2) var<storage, read> coefficients: array<f32>;
@group(0) @binding(3) var<storage, read> input_rgb: array<f32>;
@group(0) @binding(4) var<storage, read_write> output_coeffs: array<f32>;

fn find_interval(z: f32) -> u32 {
    var lo: u32 = 0u;
    var hi: u32 = params.res - 2u;
    loop {
        if (lo >= hi) { break; }
        let mid = (lo + hi + 1u) / 2u;
        if (z_nodes[mid] < z) {
            lo = mid;
        } else {
            hi = mid - 1u;
        }
    }
    return lo;
}

fn cell_coeff(max_c: u32, zi: u32, yi: u32, xi: u32, ci: u32) -> f32 {
    let res = params.res;
    let idx = ((max_c * res + zi) * res + yi) * res + xi;
    return coefficients[3u * idx + ci];
}

@compute @workgroup_size(64)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let i = gid.x;
    if (i >= params.count) {
        return;
    }

    let r = clamp(input_rgb[3u * i], 0.0, 1.0);
    let g = clamp(input_rgb[3u * i + 1u], 0.0, 1.0);
    let b = clamp(input_rgb[3u * i + 2u], 0.0, 1.0);

    if (r == g && g == b) {
        output_coeffs[3u * i] = 0.0;
        output_coeffs[3u * i + 1u] = 0.0;
        output_coeffs[3u * i + 2u] = (r - 0.5) / sqrt(r * (1.0 - r));
        return;
    }

    var max_c: u32;
    if (r > g) {
        if (r > b) { max_c = 0u; } else { max_c = 2u; }
    } else {
        if (g > b) { max_c = 1u; } else { max_c = 2u; }
    }

    let res = params.res;
    var rgb = vec3<f32>(r, g, b);
    let z = rgb[max_c];
    let x = rgb[(max_c + 1u) % 3u] * f32(res - 1u) / z;
    let y = rgb[(max_c + 2u) % 3u] * f32(res - 1u) / z;

    let xi = min(u32(x), res - 2u);
    let yi = min(u32(y), res - 2u);
    let zi = find_interval(z);

    let dx = x - f32(xi);
    let dy = y - f32(yi);
    let dz = (z - z_nodes[zi]) / (z_nodes[zi + 1u] - z_nodes[zi]);

    for (var ci: u32 = 0u; ci < 3u; ci = ci + 1u) {
        let c000 = cell_coeff(max_c, zi, yi, xi, ci);
        let c100 = cell_coeff(max_c, zi, yi, xi + 1u, ci);
        let c010 = cell_coeff(max_c, zi, yi + 1u, xi, ci);
        let c110 = cell_coeff(max_c, zi, yi + 1u, xi + 1u, ci);
        let c001 = cell_coeff(max_c, zi + 1u, yi, xi, ci);
        let c101 = cell_coeff(max_c, zi + 1u, yi, xi + 1u, ci);
        let c011 = cell_coeff(max_c, zi + 1u, yi + 1u, xi, ci);
        let c111 = cell_coeff(max_c, zi + 1u, yi + 1u, xi + 1u, ci);

        let c = mix(
            mix(mix(c000, c100, dx), mix(c010, c110, dx), dy),
            mix(mix(c001, c101, dx), mix(c011, c111, dx), dy),
            dz);
        output_coeffs[3u * i + ci] = c;
    }
}
`
